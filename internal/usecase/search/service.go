package search

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/domain"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/request"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
	logpkg "github.com/kailas-cloud/dnamatch/internal/logger"
	"github.com/kailas-cloud/dnamatch/internal/metrics"
)

// Orchestrator owns the lifecycle of one search session. At most one request
// is in flight at a time; submissions made while searching are rejected, never
// queued.
type Orchestrator struct {
	matcher Matcher
	logger  *zap.Logger

	// transitionMu serializes transitions together with their subscriber
	// delivery. Lock order: transitionMu, then mu.
	transitionMu sync.Mutex

	mu          sync.Mutex
	current     state.State
	done        chan struct{} // closed when the in-flight search settles; nil when idle
	subscribers map[int]func(state.State)
	nextSubID   int
}

// New creates an orchestrator in the idle state.
func New(matcher Matcher, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		matcher:     matcher,
		logger:      logger,
		current:     state.Idle(),
		subscribers: make(map[int]func(state.State)),
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() state.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Submit starts a search for req and returns without waiting for it.
// Returns domain.ErrSearchInFlight, leaving the running search untouched,
// if a request is already in flight.
//
// The request is detached from ctx cancellation: once issued it runs to
// completion. Values (logger, trace span) still flow through.
func (o *Orchestrator) Submit(ctx context.Context, req request.Request) error {
	o.transitionMu.Lock()
	defer o.transitionMu.Unlock()

	o.mu.Lock()
	if o.current.IsSearching() {
		o.mu.Unlock()
		return domain.ErrSearchInFlight
	}
	o.startLocked(ctx, req)
	return nil
}

// SubmitRaw validates user input and submits it. A validation failure moves
// the session to failed with the validation message and returns the
// validation error; no request is sent.
func (o *Orchestrator) SubmitRaw(ctx context.Context, rawSequence, rawK string) error {
	o.transitionMu.Lock()
	defer o.transitionMu.Unlock()

	o.mu.Lock()
	if o.current.IsSearching() {
		o.mu.Unlock()
		return domain.ErrSearchInFlight
	}
	req, err := request.Validate(rawSequence, rawK)
	if err != nil {
		o.logger.Debug("search input rejected", zap.Error(err))
		o.commit(state.Failed("", err.Error(), err))
		return err
	}
	o.startLocked(ctx, req)
	return nil
}

// Wait blocks until no search is in flight and returns the settled state.
func (o *Orchestrator) Wait(ctx context.Context) (state.State, error) {
	o.mu.Lock()
	done := o.done
	cur := o.current
	o.mu.Unlock()

	if done == nil {
		return cur, nil
	}
	select {
	case <-done:
		return o.State(), nil
	case <-ctx.Done():
		return o.State(), ctx.Err()
	}
}

// Subscribe registers fn for every subsequent transition, delivered in order.
// fn may call State but must not call Submit or SubmitRaw. The returned func
// unregisters it.
func (o *Orchestrator) Subscribe(fn func(state.State)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextSubID
	o.nextSubID++
	o.subscribers[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.subscribers, id)
		o.mu.Unlock()
	}
}

// startLocked moves to searching and launches the request. Called with both
// locks held; releases mu.
func (o *Orchestrator) startLocked(ctx context.Context, req request.Request) {
	id := uuid.NewString()
	done := make(chan struct{})
	o.done = done
	o.logger.Info("search submitted",
		zap.String("search_id", id),
		zap.Int("k", req.K()),
		zap.Int("sequence_length", len(req.QuerySequence())),
	)
	o.commit(state.Searching(id))

	runCtx := logpkg.WithFields(context.WithoutCancel(ctx), o.logger, zap.String("search_id", id))
	go o.run(runCtx, id, req, done)
}

func (o *Orchestrator) run(ctx context.Context, id string, req request.Request, done chan struct{}) {
	resp, err := o.matcher.Search(ctx, req)

	o.transitionMu.Lock()
	defer o.transitionMu.Unlock()

	o.mu.Lock()
	close(done)
	if o.done == done {
		o.done = nil
	}
	// Unreachable while single-flight holds; guards against a completion
	// landing after a newer submission took over the session.
	if o.current.SearchID() != id {
		o.mu.Unlock()
		o.logger.Debug("discarding stale search response", zap.String("search_id", id))
		return
	}

	if err != nil {
		o.logger.Warn("search failed", zap.String("search_id", id), zap.Error(err))
		o.commit(state.Failed(id, FailureMessage(err), err))
		return
	}
	o.logger.Info("search completed",
		zap.String("search_id", id),
		zap.Int("results", resp.Len()),
		zap.Float64("execution_time", resp.ExecutionTime()),
	)
	o.commit(state.Succeeded(id, resp))
}

// commit installs next and notifies subscribers. Called with both locks
// held; releases mu before running callbacks so they may read State.
func (o *Orchestrator) commit(next state.State) {
	o.current = next
	subs := make([]func(state.State), 0, len(o.subscribers))
	for i := 0; i < o.nextSubID; i++ {
		if fn, ok := o.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	o.mu.Unlock()

	metrics.SearchStateTransitions.WithLabelValues(string(next.Kind())).Inc()
	for _, fn := range subs {
		fn(next)
	}
}

// FailureMessage is the user-visible text for a failed fetch.
func FailureMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "Error fetching results. Please try again."
	}
	return "Error fetching results: " + err.Error()
}
