package site

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joelkehle/gtap-site/internal/certificate"
	"go.uber.org/zap"
)

func (s *Server) handleCertificateOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, certificate.AllOptions())
}

func (s *Server) handleLookupSubmit(w http.ResponseWriter, r *http.Request) {
	var req certificate.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	lookup, err := s.certs.Submit(req)
	switch {
	case errors.Is(err, certificate.ErrIncomplete), errors.Is(err, certificate.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("submit certificate lookup", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "certificate lookups are unavailable")
		return
	}
	writeJSON(w, http.StatusAccepted, lookup)
}

func (s *Server) handleLookupStatus(w http.ResponseWriter, r *http.Request) {
	lookup, err := s.certs.Get(mux.Vars(r)["token"])
	if errors.Is(err, certificate.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown lookup")
		return
	}
	writeJSON(w, http.StatusOK, lookup)
}

// handleLookupDismantle drops a lookup; a result still on its way is
// discarded.
func (s *Server) handleLookupDismantle(w http.ResponseWriter, r *http.Request) {
	if err := s.certs.Dismantle(mux.Vars(r)["token"]); errors.Is(err, certificate.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown lookup")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
