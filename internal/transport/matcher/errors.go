package matcher

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/dnamatch/internal/domain"
)

// ErrorKind classifies a failed matching service call.
type ErrorKind string

// Failure classes, one per domain sentinel.
const (
	KindTransport ErrorKind = "transport_error"
	KindService   ErrorKind = "service_error"
	KindDecode    ErrorKind = "decode_error"
)

// Error describes a failed call. It unwraps to both the matching domain
// sentinel and the underlying cause.
type Error struct {
	Kind       ErrorKind
	StatusCode int // set for KindService
	Cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindService:
		return fmt.Sprintf("Failed to fetch results (status %d)", e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("invalid response body: %v", e.Cause)
	default:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return domain.ErrTransport.Error()
	}
}

// Unwrap exposes the domain sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindService:
		return domain.ErrService
	case KindDecode:
		return domain.ErrDecode
	default:
		return domain.ErrTransport
	}
}

// KindOf returns the failure class of err, or "" if err is not a matcher error.
func KindOf(err error) ErrorKind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return ""
}
