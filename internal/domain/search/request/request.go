package request

import (
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/dnamatch/internal/domain"
)

// DefaultK is the k-mer size offered to the user before any input.
const DefaultK = 10

// Request is a validated search query.
type Request struct {
	querySequence string
	k             int
}

// New builds a request from already-typed values.
// The sequence is kept as given; only the emptiness check trims it.
func New(querySequence string, k int) (Request, error) {
	if strings.TrimSpace(querySequence) == "" {
		return Request{}, domain.ErrEmptySequence
	}
	if k <= 0 {
		return Request{}, domain.ErrInvalidK
	}
	return Request{querySequence: querySequence, k: k}, nil
}

// Validate turns raw user input into a request. Rules are checked in order
// and the first failure wins: a blank sequence, then a k that is not a
// positive integer.
func Validate(rawSequence, rawK string) (Request, error) {
	if strings.TrimSpace(rawSequence) == "" {
		return Request{}, domain.ErrEmptySequence
	}
	k, ok := parseK(rawK)
	if !ok {
		return Request{}, domain.ErrInvalidK
	}
	return Request{querySequence: rawSequence, k: k}, nil
}

// parseK accepts anything that reads as a finite positive whole number,
// including "010" and "1e1".
func parseK(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n > 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

// QuerySequence returns the sequence exactly as submitted.
func (r *Request) QuerySequence() string { return r.querySequence }

// K returns the k-mer window size.
func (r *Request) K() int { return r.k }
