package site

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/joelkehle/gtap-site/internal/auth"
	"github.com/joelkehle/gtap-site/internal/notify"
	"github.com/joelkehle/gtap-site/internal/store"
	"go.uber.org/zap"
)

// ClientCookie identifies a browser. Client storage is scoped by its value.
const ClientCookie = "gtap_client"

const clientCookieMaxAge = 365 * 24 * 60 * 60

type clientKey struct{}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrw, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered",
					zap.Any("panic", err),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error", "code": 500})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientMiddleware issues the client cookie on first contact and puts the
// client id in the request context.
func (s *Server) clientMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(ClientCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ClientCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   clientCookieMaxAge,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey{}, id)))
	})
}

func clientID(ctx context.Context) string {
	id, _ := ctx.Value(clientKey{}).(string)
	return id
}

// session builds the admin session for the requesting client.
func (s *Server) session(r *http.Request) *auth.Session {
	return auth.NewSession(store.NewScoped(s.store, clientID(r.Context())), s.authn, s.sink)
}

// withToasts attaches a fresh recorder to the request so handlers can return
// the toasts raised while serving it.
func withToasts(r *http.Request) (*http.Request, *notify.Recorder) {
	rec := &notify.Recorder{}
	return r.WithContext(notify.WithSink(r.Context(), rec)), rec
}

func lastToast(rec *notify.Recorder) *notify.Toast {
	t, ok := rec.Last()
	if !ok {
		return nil
	}
	return &t
}
