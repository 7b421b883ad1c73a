package dnamatch

import (
	"github.com/kailas-cloud/dnamatch/internal/domain/search/result"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
)

// DefaultK is the k-mer length used when the caller has no preference.
const DefaultK = 10

// Header is the taxonomic metadata of a reference sequence.
// Fields the service omitted are empty.
type Header struct {
	PrimaryID string
	Kingdom   string
	Phylum    string
	Class     string
	Order     string
	Family    string
	Genus     string
	Species   string
	OtherInfo string
}

// Match is one candidate reference sequence.
type Match struct {
	Header   Header
	Sequence string
	// Score is the k-mer similarity in [0, 1] for well-behaved services.
	Score float64
}

// Response is the ranked outcome of a search. Matches keep the order the
// service returned them in.
type Response struct {
	Matches []Match
	// ExecutionTime is the service-reported duration in seconds, 0 when absent.
	ExecutionTime float64
}

// StateKind names a session lifecycle state.
type StateKind string

// Session states.
const (
	StateIdle      StateKind = StateKind(state.KindIdle)
	StateSearching StateKind = StateKind(state.KindSearching)
	StateSuccess   StateKind = StateKind(state.KindSuccess)
	StateFailed    StateKind = StateKind(state.KindFailed)
)

// State is a snapshot of a session.
type State struct {
	Kind StateKind
	// Response is set only in StateSuccess.
	Response *Response
	// Message is the user-facing failure text, set only in StateFailed.
	Message string
	// Err is the underlying failure, set only in StateFailed.
	Err error
}

func toResponse(r *result.Response) *Response {
	matches := make([]Match, 0, r.Len())
	for _, res := range r.Results() {
		h := res.Header()
		matches = append(matches, Match{
			Header: Header{
				PrimaryID: h.PrimaryID,
				Kingdom:   h.Kingdom,
				Phylum:    h.Phylum,
				Class:     h.Class,
				Order:     h.Order,
				Family:    h.Family,
				Genus:     h.Genus,
				Species:   h.Species,
				OtherInfo: h.OtherInfo,
			},
			Sequence: res.Sequence(),
			Score:    res.SimilarityScore(),
		})
	}
	return &Response{Matches: matches, ExecutionTime: r.ExecutionTime()}
}

func toState(s state.State) State {
	out := State{Kind: StateKind(s.Kind())}
	switch s.Kind() {
	case state.KindSuccess:
		if resp, ok := s.Response(); ok {
			out.Response = toResponse(&resp)
		}
	case state.KindFailed:
		out.Message = s.Message()
		out.Err = s.Err()
	}
	return out
}
