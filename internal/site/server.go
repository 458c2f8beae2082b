// Package site is the HTTP front of the GTAP site: static pages, the ranking
// directory API and exports, certificate lookups, the contact form and the
// stub admin session.
package site

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joelkehle/gtap-site/internal/auth"
	"github.com/joelkehle/gtap-site/internal/certificate"
	"github.com/joelkehle/gtap-site/internal/contact"
	"github.com/joelkehle/gtap-site/internal/content"
	"github.com/joelkehle/gtap-site/internal/export"
	"github.com/joelkehle/gtap-site/internal/notify"
	"github.com/joelkehle/gtap-site/internal/store"
	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Options carries the server's collaborators and tunables.
type Options struct {
	Logger         *zap.Logger
	Store          store.Store
	Authenticator  auth.Authenticator
	Certificates   *certificate.Service
	Content        *content.Library
	WebDir         string
	PageSize       int
	SummaryLimit   int
	ExportCacheTTL time.Duration
	AllowedOrigins []string
	ChromePath     string
}

type Server struct {
	logger       *zap.Logger
	store        store.Store
	authn        auth.Authenticator
	certs        *certificate.Service
	content      *content.Library
	contact      *contact.Handler
	sink         notify.Sink
	exports      *cache.Cache
	webDir       string
	pageSize     int
	summaryLimit int
	pdfRenderer  export.PDFRenderer
	now          func() time.Time
}

func NewServer(opts Options) http.Handler {
	return newServer(opts, export.NewChromiumPDFRenderer(opts.WebDir, opts.ChromePath))
}

func newServer(opts Options, pdfRenderer export.PDFRenderer) http.Handler {
	s := build(opts, pdfRenderer)
	return s.routes(opts.AllowedOrigins)
}

func build(opts Options, pdfRenderer export.PDFRenderer) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.SummaryLimit <= 0 {
		opts.SummaryLimit = 5
	}
	ttl := opts.ExportCacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	// Toasts go to the log and to whatever recorder the request carries.
	sink := notify.Fanout{notify.LogSink{Logger: logger}, notify.ContextSink{}}
	return &Server{
		logger:       logger,
		store:        opts.Store,
		authn:        opts.Authenticator,
		certs:        opts.Certificates,
		content:      opts.Content,
		contact:      contact.NewHandler(logger, sink),
		sink:         sink,
		exports:      cache.New(ttl, 2*ttl),
		webDir:       opts.WebDir,
		pageSize:     opts.PageSize,
		summaryLimit: opts.SummaryLimit,
		pdfRenderer:  pdfRenderer,
		now:          time.Now,
	}
}

func (s *Server) routes(origins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(s.recoveryMiddleware, s.loggingMiddleware, s.clientMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/nav", s.handleNav).Methods(http.MethodGet)
	api.HandleFunc("/content", s.handleContentList).Methods(http.MethodGet)
	api.HandleFunc("/content/{section}", s.handleContentSection).Methods(http.MethodGet)
	api.HandleFunc("/rankings/import", s.handleImport).Methods(http.MethodPost)
	api.HandleFunc("/rankings/{fixture}", s.handleRankings).Methods(http.MethodGet)
	api.HandleFunc("/rankings/{fixture}/export.{format:csv|xlsx|pdf}", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/certificates/options", s.handleCertificateOptions).Methods(http.MethodGet)
	api.HandleFunc("/certificates/lookups", s.handleLookupSubmit).Methods(http.MethodPost)
	api.HandleFunc("/certificates/lookups/{token}", s.handleLookupStatus).Methods(http.MethodGet)
	api.HandleFunc("/certificates/lookups/{token}", s.handleLookupDismantle).Methods(http.MethodDelete)
	api.HandleFunc("/contact", s.handleContact).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/admin/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/admin/session", s.handleSession).Methods(http.MethodGet)
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	api.MethodNotAllowedHandler = methodNotAllowed
	r.MethodNotAllowedHandler = methodNotAllowed

	r.HandleFunc("/images/{name}", s.handleImage).Methods(http.MethodGet)
	r.PathPrefix("/").HandlerFunc(s.handleRoot).Methods(http.MethodGet, http.MethodHead)

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// Prevent stale frontend bundles from breaking the UI after deploys.
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	rel := strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")
	if info, err := fs.Stat(os.DirFS(s.webDir), rel); err == nil && !info.IsDir() {
		http.ServeFile(w, r, filepath.Join(s.webDir, rel))
		return
	}
	// Client-side routes such as /rankings fall back to the app shell.
	if !strings.Contains(filepath.Base(rel), ".") {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	http.NotFound(w, r)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
}
