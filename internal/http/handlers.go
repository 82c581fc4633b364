package http

import (
	"net/http"
	"time"

	"studentfin/internal/auth"
	"studentfin/internal/core"
	applog "studentfin/internal/log"
)

// Success messages of write endpoints.
const (
	msgRegistered = "User registered successfully"
	msgLoggedIn   = "Login successful"

	msgCategoryCreated = "Category created successfully"
	msgCategoryUpdated = "Category updated successfully"
	msgCategoryDeleted = "Category deleted successfully"

	msgExpenseCreated = "Expense created successfully"
	msgExpenseUpdated = "Expense updated successfully"
	msgExpenseDeleted = "Expense deleted successfully"

	msgIncomeCreated = "Income created successfully"
	msgIncomeUpdated = "Income updated successfully"
	msgIncomeDeleted = "Income deleted successfully"

	msgBudgetCreated = "Budget created successfully"
	msgBudgetUpdated = "Budget updated successfully"
	msgBudgetDeleted = "Budget deleted successfully"

	msgGoalCreated  = "Goal created successfully"
	msgGoalUpdated  = "Goal updated successfully"
	msgGoalProgress = "Goal progress updated successfully"
	msgGoalDeleted  = "Goal deleted successfully"
)

// empty is the data of delete responses.
var empty = struct{}{}

// owner returns the id of the authenticated user. Only called behind the
// auth middleware.
func owner(r *http.Request) string {
	if u := auth.UserFromContext(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

// fail writes the envelope for err. Kinded errors keep their message;
// anything else is a 500 whose detail is only shown in development.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := applog.FromContext(r.Context())
	status, message, ok := statusFor(err)
	if !ok {
		logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeInternal,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path)
		ServerError(err.Error(), s.exposeErrors).Write(w)
		return
	}
	logger.DebugContext(r.Context(), "Request rejected",
		applog.FieldError, err,
		applog.FieldErrorType, errorType(status),
		applog.FieldStatusCode, status)
	ErrorResponse(status, message).Write(w)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Message("Student Finance API").
		Data(map[string]string{
			"status":    "Running",
			"version":   s.version,
			"timestamp": s.now().UTC().Format(time.RFC3339),
		}).
		Write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":      "OK",
		"database":    "Connected",
		"backend":     s.backend,
		"environment": s.environment,
		"timestamp":   s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.Ping(r.Context()); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentStorage).WarnContext(r.Context(), "Health check failed",
			applog.FieldError, err)
		data["status"] = "Unavailable"
		data["database"] = "Disconnected"
		NewJSONResponse().Fail().Status(http.StatusServiceUnavailable).Data(data).Write(w)
		return
	}
	NewJSONResponse().Data(data).Write(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	NotFoundError("Route not found").Write(w)
}

// authError renders bearer token rejections.
func (s *Server) authError(w http.ResponseWriter, r *http.Request, err error) {
	s.fail(w, r, err)
}

// currentUser echoes the authenticated user.
func currentUser(r *http.Request) *core.User {
	return auth.UserFromContext(r.Context())
}
