package http

import (
	"net/http"
	"strings"

	"studentfin/internal/core"
	applog "studentfin/internal/log"
	"studentfin/internal/services"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	kind := core.CategoryKind(strings.TrimSpace(r.URL.Query().Get("kind")))
	items, err := s.svc.Categories.List(r.Context(), owner(r), kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Count(len(items)).Data(items).Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Categories.Get(r.Context(), owner(r), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	NewJSONResponse().Data(c).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.Categories.Create(r.Context(), owner(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpCreate, applog.ComponentCategory, c.ID, c.OwnerID)
	NewJSONResponse().Created().Message(msgCategoryCreated).Data(c).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch services.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.Categories.Update(r.Context(), owner(r), r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpUpdate, applog.ComponentCategory, c.ID, c.OwnerID)
	NewJSONResponse().Message(msgCategoryUpdated).Data(c).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Categories.Delete(r.Context(), owner(r), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogEntityChange(r.Context(), applog.OpDelete, applog.ComponentCategory, id, owner(r))
	NewJSONResponse().Message(msgCategoryDeleted).Data(empty).Write(w)
}
