package http

import (
	"net/http"
	"strings"

	"studentfin/internal/core"
	applog "studentfin/internal/log"
	"studentfin/internal/services"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	period := core.Frequency(strings.TrimSpace(r.URL.Query().Get("period")))
	views, err := s.svc.Budgets.List(r.Context(), owner(r), period)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Count(len(views)).Data(views).Write(w)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Budgets.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(view).Write(w)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Budgets.CurrentStatus(r.Context(), owner(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Count(len(entries)).Data(entries).Write(w)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var in services.BudgetInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.svc.Budgets.Create(r.Context(), owner(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpCreate, applog.ComponentBudget, view.ID, view.OwnerID)
	NewJSONResponse().Created().Message(msgBudgetCreated).Data(view).Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var patch services.BudgetPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := s.svc.Budgets.Update(r.Context(), owner(r), r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpUpdate, applog.ComponentBudget, view.ID, view.OwnerID)
	NewJSONResponse().Message(msgBudgetUpdated).Data(view).Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Budgets.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpDelete, applog.ComponentBudget, id, owner(r))
	NewJSONResponse().Message(msgBudgetDeleted).Data(empty).Write(w)
}
