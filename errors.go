package dnamatch

import "github.com/kailas-cloud/dnamatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptySequence  = domain.ErrEmptySequence
	ErrInvalidK       = domain.ErrInvalidK
	ErrTransport      = domain.ErrTransport
	ErrService        = domain.ErrService
	ErrDecode         = domain.ErrDecode
	ErrSearchInFlight = domain.ErrSearchInFlight
)
