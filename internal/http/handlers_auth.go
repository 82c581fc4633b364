package http

import (
	"net/http"

	applog "studentfin/internal/log"
	"studentfin/internal/services"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	session, err := s.svc.Auth.Register(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogAuth(r.Context(), applog.OpRegister, session.User.ID)
	NewJSONResponse().Created().Message(msgRegistered).Data(session).Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	session, err := s.svc.Auth.Login(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.sl.LogAuth(r.Context(), applog.OpLogin, session.User.ID)
	NewJSONResponse().Message(msgLoggedIn).Data(session).Write(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Data(currentUser(r)).Write(w)
}
