package http

import (
	"net/http"

	"studentfin/internal/core"
	applog "studentfin/internal/log"
	"studentfin/internal/services"
)

// transactionRequest is the body of expense and income writes. Dates are
// parsed in the server's location.
type transactionRequest struct {
	CategoryID  *string     `json:"categoryId"`
	Amount      *core.Money `json:"amount"`
	Date        *string     `json:"date"`
	Note        *string     `json:"note"`
	Description *string     `json:"description"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	f, err := ParseTransactionFilter(r.URL.Query(), s.loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.svc.Expenses.List(r.Context(), owner(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Count(list.Count).Total(list.Total).Data(list.Items).Write(w)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.svc.Expenses.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(e).Write(w)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	date, err := parseOptionalDate(req.Date, s.loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.svc.Expenses.Create(r.Context(), owner(r), services.ExpenseInput{
		CategoryID: deref(req.CategoryID),
		Amount:     req.Amount,
		Date:       date,
		Note:       deref(req.Note),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpCreate, applog.ComponentExpense, e.ID, e.OwnerID)
	NewJSONResponse().Created().Message(msgExpenseCreated).Data(e).Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	date, err := parseOptionalDate(req.Date, s.loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	e, err := s.svc.Expenses.Update(r.Context(), owner(r), r.PathValue("id"), services.ExpensePatch{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Date:       date,
		Note:       req.Note,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpUpdate, applog.ComponentExpense, e.ID, e.OwnerID)
	NewJSONResponse().Message(msgExpenseUpdated).Data(e).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Expenses.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpDelete, applog.ComponentExpense, id, owner(r))
	NewJSONResponse().Message(msgExpenseDeleted).Data(empty).Write(w)
}

func (s *Server) handleExpenseStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Expenses.MonthSummary(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(summary).Write(w)
}
