package http

import (
	"net/http"
	"strings"

	"finora/internal/log"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusUnprocessableEntity, "email is required")
		return
	}

	u := s.store.Login(req.Email, req.Password)
	s.logger.InfoContext(r.Context(), "User logged in",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, u.ID)
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name and email are required")
		return
	}

	u := s.store.Register(req.Name, req.Email, req.Password)
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.Logout()
	s.logger.InfoContext(r.Context(), "User logged out", log.FieldOperation, log.OpLogout)
	w.WriteHeader(http.StatusNoContent)
}
