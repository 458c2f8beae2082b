// Package contact validates contact form messages. Messages are acknowledged
// and logged, never stored or forwarded.
package contact

import (
	"context"
	"net/mail"
	"strings"

	"github.com/joelkehle/gtap-site/internal/notify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrIncomplete   = eris.New("Please fill in every field.")
	ErrInvalidEmail = eris.New("Please enter a valid email address.")
)

type Message struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Message      string `json:"message"`
}

func (m Message) Validate() error {
	for _, v := range []string{m.Name, m.Email, m.Organization, m.Message} {
		if strings.TrimSpace(v) == "" {
			return ErrIncomplete
		}
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(m.Email)); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

var Acknowledgement = notify.Toast{
	Title:       "Message Sent!",
	Description: "Thank you for contacting GTAP. We'll get back to you soon.",
	Severity:    notify.SeverityDefault,
}

type Handler struct {
	logger *zap.Logger
	sink   notify.Sink
}

func NewHandler(logger *zap.Logger, sink notify.Sink) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = notify.Fanout(nil)
	}
	return &Handler{logger: logger, sink: sink}
}

// Submit validates m and acknowledges it. Invalid messages are returned to
// the caller without a toast.
func (h *Handler) Submit(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	h.logger.Info("contact message received",
		zap.String("organization", strings.TrimSpace(m.Organization)),
		zap.Int("message_length", len(m.Message)),
	)
	h.sink.Notify(ctx, Acknowledgement)
	return nil
}
