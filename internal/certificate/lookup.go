// Package certificate simulates certificate verification: a validated request
// resolves to a placeholder result after a fixed delay.
package certificate

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

const (
	DefaultDelay = 750 * time.Millisecond

	// IssuedTo is shown in place of a real certificate holder.
	IssuedTo = "Student Name Placeholder"

	issuedOnLayout = "January 2, 2006"
	retention      = 30 * time.Minute
)

var (
	ErrIncomplete = eris.New("Please complete every field before searching for a certificate.")
	ErrInvalid    = eris.New("Please choose an institution type, board and academic year from the lists provided.")
	ErrNotFound   = eris.New("lookup not found")
)

type Request struct {
	InstitutionType string `json:"institution_type"`
	Board           string `json:"board"`
	AcademicYear    string `json:"academic_year"`
	Code            string `json:"code"`
}

// Validate returns ErrIncomplete when any field is blank and ErrInvalid when a
// choice is not one of the offered options.
func (r Request) Validate() error {
	if r.InstitutionType == "" || r.Board == "" || r.AcademicYear == "" || strings.TrimSpace(r.Code) == "" {
		return ErrIncomplete
	}
	if !validType(r.InstitutionType) || !contains(Boards, r.Board) || !contains(AcademicYears, r.AcademicYear) {
		return ErrInvalid
	}
	return nil
}

type Result struct {
	BoardName    string `json:"board_name"`
	AcademicYear string `json:"academic_year"`
	Code         string `json:"code"`
	IssuedTo     string `json:"issued_to"`
	IssuedOn     string `json:"issued_on"`
}

// Resolve builds the result for a valid request.
func Resolve(r Request, now time.Time) Result {
	return Result{
		BoardName:    r.Board,
		AcademicYear: r.AcademicYear,
		Code:         strings.ToUpper(strings.TrimSpace(r.Code)),
		IssuedTo:     IssuedTo,
		IssuedOn:     now.Format(issuedOnLayout),
	}
}

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
)

type Lookup struct {
	Token     string    `json:"token"`
	Status    Status    `json:"status"`
	Request   Request   `json:"request"`
	Result    *Result   `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type entry struct {
	lookup Lookup
	timer  *time.Timer
}

// Service schedules lookups. Each lookup resolves once, after the delay, on
// its own timer. Dismantling a lookup stops the timer; a result that arrives
// for a dismantled lookup is dropped.
type Service struct {
	delay time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
	onReady func(Lookup)
}

func NewService(delay time.Duration) *Service {
	if delay < 0 {
		delay = 0
	}
	return &Service{
		delay:   delay,
		now:     time.Now,
		entries: map[string]*entry{},
	}
}

// OnReady registers a callback run after a lookup resolves.
func (s *Service) OnReady(fn func(Lookup)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReady = fn
}

// Submit validates req and schedules its resolution.
func (s *Service) Submit(req Request) (Lookup, error) {
	if err := req.Validate(); err != nil {
		return Lookup{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Lookup{}, eris.New("certificate service closed")
	}
	now := s.now()
	s.purgeLocked(now)

	token := uuid.NewString()
	e := &entry{lookup: Lookup{
		Token:     token,
		Status:    StatusPending,
		Request:   req,
		CreatedAt: now,
	}}
	s.entries[token] = e
	e.timer = time.AfterFunc(s.delay, func() { s.resolve(token) })
	return e.lookup, nil
}

func (s *Service) resolve(token string) {
	s.mu.Lock()
	e, ok := s.entries[token]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	res := Resolve(e.lookup.Request, s.now())
	e.lookup.Result = &res
	e.lookup.Status = StatusReady
	snapshot := e.lookup
	cb := s.onReady
	s.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

func (s *Service) Get(token string) (Lookup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return Lookup{}, ErrNotFound
	}
	return e.lookup, nil
}

// Dismantle forgets a lookup whether or not it has resolved.
func (s *Service) Dismantle(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok {
		return ErrNotFound
	}
	e.timer.Stop()
	delete(s.entries, token)
	return nil
}

// Pending counts lookups that have not resolved yet.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.lookup.Status == StatusPending {
			n++
		}
	}
	return n
}

// Close stops every outstanding timer. Lookups still pending never resolve.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for token, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, token)
	}
}

func (s *Service) purgeLocked(now time.Time) {
	for token, e := range s.entries {
		if e.lookup.Status == StatusReady && now.Sub(e.lookup.CreatedAt) > retention {
			delete(s.entries, token)
		}
	}
}
