package dnamatch

import (
	"context"
	"time"

	"github.com/kailas-cloud/dnamatch/internal/domain"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
	searchuc "github.com/kailas-cloud/dnamatch/internal/usecase/search"
)

// Session tracks one search at a time through the idle, searching, success
// and failed states. It is safe for concurrent use.
type Session struct {
	orch *searchuc.Orchestrator
	obs  *observer
}

func newSession(orch *searchuc.Orchestrator, obs *observer) *Session {
	s := &Session{orch: orch, obs: obs}
	if obs != nil && obs.logger != nil {
		orch.Subscribe(func(st state.State) {
			obs.logger.Debug("session transition",
				"state", string(st.Kind()),
				"search_id", st.SearchID(),
			)
		})
	}
	return s
}

// Submit validates raw user input and starts a search. It returns
// ErrSearchInFlight if a search is already running, or the validation error
// after moving the session to StateFailed.
func (s *Session) Submit(ctx context.Context, sequence, k string) error {
	start := time.Now()
	err := s.orch.SubmitRaw(ctx, sequence, k)
	if domain.IsValidation(err) {
		s.obs.observe("validate", start, err)
	}
	return err //nolint:wrapcheck // sentinels are part of the API
}

// State returns the current session snapshot.
func (s *Session) State() State {
	return toState(s.orch.State())
}

// Wait blocks until no search is in flight or ctx ends.
func (s *Session) Wait(ctx context.Context) (State, error) {
	st, err := s.orch.Wait(ctx)
	return toState(st), err //nolint:wrapcheck // context error
}

// Subscribe calls fn after every transition, in order. fn must not call
// Submit. The returned func unregisters it.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.orch.Subscribe(func(st state.State) { fn(toState(st)) })
}
