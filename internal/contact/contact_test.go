package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/joelkehle/gtap-site/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func valid() Message {
	return Message{Name: "Asha", Email: "asha@school.in", Organization: "Sunrise School", Message: "We would like to apply."}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, valid().Validate())

	m := valid()
	m.Organization = "  "
	assert.True(t, errors.Is(m.Validate(), ErrIncomplete))

	m = valid()
	m.Email = "not-an-email"
	assert.True(t, errors.Is(m.Validate(), ErrInvalidEmail))
}

func TestSubmitAcknowledges(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	rec := &notify.Recorder{}
	h := NewHandler(zap.New(core), rec)

	require.NoError(t, h.Submit(context.Background(), valid()))
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Message Sent!", last.Title)
	assert.Equal(t, "Thank you for contacting GTAP. We'll get back to you soon.", last.Description)
	assert.Equal(t, 1, logs.FilterMessage("contact message received").Len())
}

func TestSubmitInvalidHasNoToast(t *testing.T) {
	rec := &notify.Recorder{}
	h := NewHandler(nil, rec)
	err := h.Submit(context.Background(), Message{})
	assert.True(t, errors.Is(err, ErrIncomplete))
	assert.Empty(t, rec.Toasts())
}
