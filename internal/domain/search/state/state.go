package state

import "github.com/kailas-cloud/dnamatch/internal/domain/search/result"

// Kind is the lifecycle phase of a search session.
type Kind string

// Lifecycle phases.
const (
	// KindIdle means nothing has been submitted yet.
	KindIdle      Kind = "idle"
	KindSearching Kind = "searching"
	KindSuccess   Kind = "success"
	KindFailed    Kind = "failed"
)

// IsValid checks if the kind is one of the known phases.
func (k Kind) IsValid() bool {
	return k == KindIdle || k == KindSearching || k == KindSuccess || k == KindFailed
}

// State is the single lifecycle value of a search session. Payload fields are
// only populated for the kind that owns them, so contradictory combinations
// (searching with an error, failed with results) cannot be built.
type State struct {
	kind     Kind
	searchID string
	response result.Response
	message  string
	err      error
}

// Idle returns the initial state.
func Idle() State {
	return State{kind: KindIdle}
}

// Searching returns the state for an in-flight request.
func Searching(searchID string) State {
	return State{kind: KindSearching, searchID: searchID}
}

// Succeeded returns the state for a completed request.
func Succeeded(searchID string, resp result.Response) State {
	return State{kind: KindSuccess, searchID: searchID, response: resp}
}

// Failed returns the state for a rejected or failed request.
// cause may be nil.
func Failed(searchID, message string, cause error) State {
	return State{kind: KindFailed, searchID: searchID, message: message, err: cause}
}

// Kind returns the lifecycle phase.
func (s State) Kind() Kind { return s.kind }

// SearchID identifies the submission that produced this state. Empty for idle
// and for validation failures.
func (s State) SearchID() string { return s.searchID }

// Response returns the search outcome. ok is false unless the state is success.
func (s State) Response() (resp result.Response, ok bool) {
	if s.kind != KindSuccess {
		return result.Response{}, false
	}
	return s.response, true
}

// Message returns the user-visible failure text, empty unless failed.
func (s State) Message() string {
	if s.kind != KindFailed {
		return ""
	}
	return s.message
}

// Err returns the underlying failure, nil unless failed.
func (s State) Err() error {
	if s.kind != KindFailed {
		return nil
	}
	return s.err
}

// IsSearching reports whether a request is in flight.
func (s State) IsSearching() bool { return s.kind == KindSearching }
