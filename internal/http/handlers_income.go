package http

import (
	"net/http"

	applog "studentfin/internal/log"
	"studentfin/internal/services"
)

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	f, err := ParseTransactionFilter(r.URL.Query(), s.loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.svc.Incomes.List(r.Context(), owner(r), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Count(list.Count).Total(list.Total).Data(list.Items).Write(w)
}

func (s *Server) handleGetIncome(w http.ResponseWriter, r *http.Request) {
	i, err := s.svc.Incomes.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(i).Write(w)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
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
	i, err := s.svc.Incomes.Create(r.Context(), owner(r), services.IncomeInput{
		CategoryID:  deref(req.CategoryID),
		Amount:      req.Amount,
		Date:        date,
		Description: deref(req.Description),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpCreate, applog.ComponentIncome, i.ID, i.OwnerID)
	NewJSONResponse().Created().Message(msgIncomeCreated).Data(i).Write(w)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
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
	i, err := s.svc.Incomes.Update(r.Context(), owner(r), r.PathValue("id"), services.IncomePatch{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpUpdate, applog.ComponentIncome, i.ID, i.OwnerID)
	NewJSONResponse().Message(msgIncomeUpdated).Data(i).Write(w)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Incomes.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpDelete, applog.ComponentIncome, id, owner(r))
	NewJSONResponse().Message(msgIncomeDeleted).Data(empty).Write(w)
}

func (s *Server) handleIncomeStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Incomes.MonthSummary(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(summary).Write(w)
}
