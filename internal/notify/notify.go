// Package notify delivers fire-and-forget toast messages.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Severity string

const (
	SeverityDefault     Severity = "default"
	SeverityDestructive Severity = "destructive"
)

type Toast struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Sink accepts toasts. Delivery never fails from the caller's point of view.
type Sink interface {
	Notify(ctx context.Context, t Toast)
}

// Recorder keeps every toast it receives.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast, if any.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// LogSink writes toasts to a zap logger.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Notify(_ context.Context, t Toast) {
	fields := []zap.Field{zap.String("title", t.Title), zap.String("description", t.Description)}
	if t.Severity == SeverityDestructive {
		s.Logger.Warn("toast", fields...)
		return
	}
	s.Logger.Info("toast", fields...)
}

// Fanout delivers each toast to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, t Toast) {
	for _, s := range f {
		s.Notify(ctx, t)
	}
}

type ctxKey struct{}

// WithSink attaches a request-scoped sink to ctx.
func WithSink(ctx context.Context, s Sink) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the sink attached to ctx, or a sink that drops
// everything.
func FromContext(ctx context.Context) Sink {
	if s, ok := ctx.Value(ctxKey{}).(Sink); ok {
		return s
	}
	return Fanout(nil)
}

// ContextSink forwards each toast to the sink attached to the context it is
// delivered with.
type ContextSink struct{}

func (ContextSink) Notify(ctx context.Context, t Toast) {
	FromContext(ctx).Notify(ctx, t)
}
