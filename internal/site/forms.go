package site

import (
	"errors"
	"net/http"

	"github.com/joelkehle/gtap-site/internal/auth"
	"github.com/joelkehle/gtap-site/internal/contact"
	"go.uber.org/zap"
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var msg contact.Message
	if err := decodeJSON(w, r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	r, rec := withToasts(r)
	if err := s.contact.Submit(r.Context(), msg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "toast": lastToast(rec)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	r, rec := withToasts(r)
	err := s.session(r).Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"authenticated": false,
			"error":         err.Error(),
			"toast":         lastToast(rec),
		})
		return
	case err != nil:
		s.logger.Error("admin login", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "toast": lastToast(rec)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	r, rec := withToasts(r)
	if err := s.session(r).Logout(r.Context()); err != nil {
		s.logger.Error("admin logout", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "toast": lastToast(rec)})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	authed, err := s.session(r).IsAuthenticated(r.Context())
	if err != nil {
		s.logger.Error("read admin flag", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": authed})
}
