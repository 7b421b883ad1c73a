package health

import "context"

// MatcherProber checks matching service reachability.
type MatcherProber interface {
	Probe(ctx context.Context) error
}
