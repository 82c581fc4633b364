package http

import (
	"net/http"

	"studentfin/internal/core"
	applog "studentfin/internal/log"
	"studentfin/internal/services"
)

type goalRequest struct {
	Name          *string     `json:"name"`
	Description   *string     `json:"description"`
	TargetAmount  *core.Money `json:"targetAmount"`
	CurrentAmount *core.Money `json:"currentAmount"`
	TargetDate    *string     `json:"targetDate"`
	IsCompleted   *bool       `json:"isCompleted"`
}

type progressRequest struct {
	Amount *core.Money `json:"amount"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	completed, err := ParseOptionalBool(r.URL.Query(), "isCompleted")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	goals, err := s.svc.Goals.List(r.Context(), owner(r), completed)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Count(len(goals)).Data(goals).Write(w)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Goals.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(g).Write(w)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	target, err := parseOptionalDate(req.TargetDate, s.loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.svc.Goals.Create(r.Context(), owner(r), services.GoalInput{
		Name:          deref(req.Name),
		Description:   deref(req.Description),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    target,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpCreate, applog.ComponentGoal, g.ID, g.OwnerID)
	NewJSONResponse().Created().Message(msgGoalCreated).Data(g).Write(w)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	target, err := parseOptionalDate(req.TargetDate, s.loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.svc.Goals.Update(r.Context(), owner(r), r.PathValue("id"), services.GoalPatch{
		Name:          req.Name,
		Description:   req.Description,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    target,
		IsCompleted:   req.IsCompleted,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpUpdate, applog.ComponentGoal, g.ID, g.OwnerID)
	NewJSONResponse().Message(msgGoalUpdated).Data(g).Write(w)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	g, err := s.svc.Goals.AddProgress(r.Context(), owner(r), r.PathValue("id"), req.Amount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpUpdate, applog.ComponentGoal, g.ID, g.OwnerID)
	NewJSONResponse().Message(msgGoalProgress).Data(g).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Goals.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpDelete, applog.ComponentGoal, id, owner(r))
	NewJSONResponse().Message(msgGoalDeleted).Data(empty).Write(w)
}
