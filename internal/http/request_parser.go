// This file implements utilities for parsing and validating request data:
// JSON bodies, calendar dates and list query parameters.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

const maxBodyBytes = 1 << 20

const dateLayout = "2006-01-02"

var errMalformedBody = core.Validation("Invalid request body")

// decodeJSON reads a JSON object from the request body into v. An empty
// body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.Validation("Request body too large")
		}
		return fmt.Errorf("read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		var coreErr *core.Error
		if errors.As(err, &coreErr) {
			return coreErr
		}
		return errMalformedBody
	}
	return nil
}

// Date is a request timestamp: a calendar date (YYYY-MM-DD) read as
// midnight in the server's location, or a full RFC 3339 timestamp.
type Date struct {
	time.Time
	dateOnly bool
}

// ParseDate parses s as a calendar date or an RFC 3339 timestamp.
func ParseDate(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return Date{Time: t, dateOnly: true}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Date{Time: t}, nil
	}
	return Date{}, core.ErrInvalidDate
}

// endOfDay extends a calendar date to its last instant so date ranges
// include the whole end day.
func (d Date) endOfDay() time.Time {
	if !d.dateOnly {
		return d.Time
	}
	return d.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// ParseTransactionFilter reads categoryId, startDate and endDate. Both
// bounds are inclusive.
func ParseTransactionFilter(query url.Values, loc *time.Location) (storage.TransactionFilter, error) {
	f := storage.TransactionFilter{CategoryID: strings.TrimSpace(query.Get("categoryId"))}
	if v := query.Get("startDate"); v != "" {
		d, err := ParseDate(v, loc)
		if err != nil {
			return f, err
		}
		f.From = &d.Time
	}
	if v := query.Get("endDate"); v != "" {
		d, err := ParseDate(v, loc)
		if err != nil {
			return f, err
		}
		end := d.endOfDay()
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, core.Validation("endDate must not be before startDate")
	}
	return f, nil
}

// ParseOptionalBool reads a boolean query parameter; absent means nil.
func ParseOptionalBool(query url.Values, key string) (*bool, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, core.Validation(key + " must be true or false")
	}
	return &b, nil
}

// ParseLimit reads the limit parameter, returning 0 when it is absent or
// not a number.
func ParseLimit(query url.Values) int {
	n, err := strconv.Atoi(strings.TrimSpace(query.Get("limit")))
	if err != nil {
		return 0
	}
	return n
}

// parseOptionalDate parses a body date field; nil stays nil.
func parseOptionalDate(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := ParseDate(*s, loc)
	if err != nil {
		return nil, err
	}
	return &d.Time, nil
}
