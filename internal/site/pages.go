package site

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joelkehle/gtap-site/internal/content"
)

// PlaceholderImage is served in place of any image that cannot be read.
const PlaceholderImage = "placeholder.svg"

func (s *Server) handleContentList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sections": s.content.List()})
}

func (s *Server) handleContentSection(w http.ResponseWriter, r *http.Request) {
	sec, err := s.content.Get(mux.Vars(r)["section"])
	if errors.Is(err, content.ErrUnknownSection) {
		writeError(w, http.StatusNotFound, "unknown section")
		return
	}
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	dir := filepath.Join(s.webDir, "images")
	name := filepath.Base(mux.Vars(r)["name"])
	if name != "." && !strings.HasPrefix(name, ".") {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, filepath.Join(dir, PlaceholderImage))
}
