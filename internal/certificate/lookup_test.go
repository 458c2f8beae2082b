package certificate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func validRequest() Request {
	return Request{
		InstitutionType: "school",
		Board:           Boards[0],
		AcademicYear:    "2025-2026",
		Code:            "  gtap-2025-0042 ",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validRequest().Validate())

	for _, mutate := range []func(*Request){
		func(r *Request) { r.InstitutionType = "" },
		func(r *Request) { r.Board = "" },
		func(r *Request) { r.AcademicYear = "" },
		func(r *Request) { r.Code = "   " },
	} {
		r := validRequest()
		mutate(&r)
		err := r.Validate()
		assert.True(t, errors.Is(err, ErrIncomplete))
		assert.Equal(t, "Please complete every field before searching for a certificate.", err.Error())
	}

	r := validRequest()
	r.AcademicYear = "1999-2000"
	assert.True(t, errors.Is(r.Validate(), ErrInvalid))
}

func TestResolve(t *testing.T) {
	res := Resolve(validRequest(), time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "GTAP-2025-0042", res.Code)
	assert.Equal(t, IssuedTo, res.IssuedTo)
	assert.Equal(t, "March 4, 2026", res.IssuedOn)
	assert.Equal(t, Boards[0], res.BoardName)
	assert.Equal(t, "2025-2026", res.AcademicYear)
}

func TestOptions(t *testing.T) {
	opts := AllOptions()
	assert.Len(t, opts.Boards, 33)
	assert.Len(t, opts.AcademicYears, 4)
	assert.Len(t, opts.InstitutionTypes, 3)
	opts.Boards[0] = "changed"
	assert.NotEqual(t, "changed", Boards[0])
}

func TestSubmitResolvesAfterDelay(t *testing.T) {
	s := NewService(20 * time.Millisecond)
	defer s.Close()

	ready := make(chan Lookup, 1)
	s.OnReady(func(l Lookup) { ready <- l })

	l, err := s.Submit(validRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, l.Status)
	assert.Nil(t, l.Result)
	assert.Equal(t, 1, s.Pending())

	select {
	case got := <-ready:
		assert.Equal(t, l.Token, got.Token)
	case <-time.After(2 * time.Second):
		t.Fatal("lookup never resolved")
	}

	got, err := s.Get(l.Token)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "GTAP-2025-0042", got.Result.Code)
	assert.Equal(t, 0, s.Pending())
}

func TestSubmitRejectsIncomplete(t *testing.T) {
	s := NewService(time.Millisecond)
	defer s.Close()
	_, err := s.Submit(Request{})
	assert.True(t, errors.Is(err, ErrIncomplete))
	assert.Equal(t, 0, s.Pending())
}

func TestDismantleDiscardsResult(t *testing.T) {
	s := NewService(50 * time.Millisecond)
	defer s.Close()

	fired := make(chan struct{}, 1)
	s.OnReady(func(Lookup) { fired <- struct{}{} })

	l, err := s.Submit(validRequest())
	require.NoError(t, err)
	require.NoError(t, s.Dismantle(l.Token))

	select {
	case <-fired:
		t.Fatal("dismantled lookup resolved")
	case <-time.After(150 * time.Millisecond):
	}
	_, err = s.Get(l.Token)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Dismantle(l.Token), ErrNotFound))
}

func TestCloseStopsPendingLookups(t *testing.T) {
	s := NewService(time.Hour)
	_, err := s.Submit(validRequest())
	require.NoError(t, err)
	s.Close()
	assert.Equal(t, 0, s.Pending())
	_, err = s.Submit(validRequest())
	assert.Error(t, err)
}

func TestPurgeDropsOldResults(t *testing.T) {
	s := NewService(0)
	defer s.Close()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	l, err := s.Submit(validRequest())
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		got, err := s.Get(l.Token)
		return err == nil && got.Status == StatusReady
	}, time.Second, 5*time.Millisecond)

	s.mu.Lock()
	s.now = func() time.Time { return base.Add(time.Hour) }
	s.mu.Unlock()
	_, err = s.Submit(validRequest())
	require.NoError(t, err)
	_, err = s.Get(l.Token)
	assert.True(t, errors.Is(err, ErrNotFound))
}
