// Package auth gates the admin-only import affordance behind a stub login.
//
// StubAuthenticator compares against configured credentials in plain text.
// It is not a security boundary and must not be used to protect real data.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/joelkehle/gtap-site/internal/notify"
	"github.com/rotisserie/eris"
)

// StorageKey is the client storage entry holding the admin flag.
const StorageKey = "gtap_admin_auth"

const flagValue = "true"

var ErrInvalidCredentials = eris.New("invalid email or password")

// Provider is the session surface handed to components that need to know
// whether the admin is signed in.
type Provider interface {
	IsAuthenticated(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

// Storage is one client's persistent key/value storage.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Authenticator interface {
	Authenticate(email, password string) bool
}

// StubAuthenticator accepts exactly one email/password pair. The email is
// compared case-insensitively. With either credential empty it rejects
// everything.
type StubAuthenticator struct {
	email    string
	password string
}

func NewStubAuthenticator(email, password string) StubAuthenticator {
	return StubAuthenticator{email: normalizeEmail(email), password: password}
}

func (a StubAuthenticator) Authenticate(email, password string) bool {
	if a.email == "" || a.password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(a.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return emailOK && passOK
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var (
	toastLoginOK = notify.Toast{
		Title:       "Login Successful!",
		Description: "Welcome back! You have been logged in.",
		Severity:    notify.SeverityDefault,
	}
	toastLoginFailed = notify.Toast{
		Title:       "Login Failed",
		Description: "Invalid email or password. Please try again.",
		Severity:    notify.SeverityDestructive,
	}
	toastLoggedOut = notify.Toast{
		Title:       "Logged Out",
		Description: "You have been successfully logged out.",
		Severity:    notify.SeverityDefault,
	}
)

// Session is the Provider for one client, persisted through Storage.
type Session struct {
	storage Storage
	authn   Authenticator
	sink    notify.Sink
}

func NewSession(storage Storage, authn Authenticator, sink notify.Sink) *Session {
	if sink == nil {
		sink = notify.Fanout(nil)
	}
	return &Session{storage: storage, authn: authn, sink: sink}
}

func (s *Session) IsAuthenticated(ctx context.Context) (bool, error) {
	v, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return false, eris.Wrap(err, "read admin flag")
	}
	return ok && v == flagValue, nil
}

// Login sets the admin flag on a credential match. A mismatch returns
// ErrInvalidCredentials and leaves the flag untouched.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if !s.authn.Authenticate(email, password) {
		s.sink.Notify(ctx, toastLoginFailed)
		return ErrInvalidCredentials
	}
	if err := s.storage.Set(ctx, StorageKey, flagValue); err != nil {
		return eris.Wrap(err, "store admin flag")
	}
	s.sink.Notify(ctx, toastLoginOK)
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return eris.Wrap(err, "clear admin flag")
	}
	s.sink.Notify(ctx, toastLoggedOut)
	return nil
}
