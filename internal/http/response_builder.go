// Package http serves the studentfin REST API.
//
// This file implements the builder for the JSON envelope every endpoint
// answers with and the mapping from error kinds to status codes.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"studentfin/internal/core"
	applog "studentfin/internal/log"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Total   *core.Money `json:"total,omitempty"`
	Data    any         `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building envelope responses.
type JSONResponseBuilder struct {
	statusCode int
	envelope   Envelope
	headers    map[string]string
}

// NewJSONResponse creates a successful 200 response.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		envelope:   Envelope{Success: true},
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Created is Status(201).
func (b *JSONResponseBuilder) Created() *JSONResponseBuilder {
	return b.Status(http.StatusCreated)
}

func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.envelope.Data = v
	return b
}

func (b *JSONResponseBuilder) Message(msg string) *JSONResponseBuilder {
	b.envelope.Message = msg
	return b
}

func (b *JSONResponseBuilder) Count(n int) *JSONResponseBuilder {
	b.envelope.Count = &n
	return b
}

func (b *JSONResponseBuilder) Total(m core.Money) *JSONResponseBuilder {
	b.envelope.Total = &m
	return b
}

// Fail marks the envelope unsuccessful.
func (b *JSONResponseBuilder) Fail() *JSONResponseBuilder {
	b.envelope.Success = false
	return b
}

// ErrorDetail sets the error field, shown only in development.
func (b *JSONResponseBuilder) ErrorDetail(detail string) *JSONResponseBuilder {
	b.envelope.Error = detail
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.envelope); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

// ErrorResponse creates a failed envelope carrying message.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Fail().Status(statusCode).Message(message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// TooManyRequestsError creates a 429 response.
func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "Too many requests, please try again later.")
}

// ServerError creates the 500 envelope. detail is dropped unless exposeDetail.
func ServerError(detail string, exposeDetail bool) *JSONResponseBuilder {
	b := ErrorResponse(http.StatusInternalServerError, "Server Error")
	if exposeDetail {
		b.ErrorDetail(detail)
	}
	return b
}

// statusFor maps an error kind to its status code and caller-facing
// message. ok is false for errors that carry no kind.
func statusFor(err error) (status int, message string, ok bool) {
	switch {
	case errors.Is(err, core.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		status = http.StatusConflict
	default:
		return http.StatusInternalServerError, "", false
	}
	message = core.Message(err)
	if message == "" {
		message = http.StatusText(status)
	}
	return status, message, true
}

// errorType names the log category of an error kind.
func errorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return applog.ErrorTypeValidation
	case http.StatusUnauthorized:
		return applog.ErrorTypeAuth
	case http.StatusForbidden:
		return applog.ErrorTypeForbidden
	case http.StatusNotFound:
		return applog.ErrorTypeNotFound
	case http.StatusConflict:
		return applog.ErrorTypeConflict
	default:
		return applog.ErrorTypeInternal
	}
}
