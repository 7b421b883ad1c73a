package domain

import "errors"

var (
	// ErrEmptySequence signals a query sequence that is blank after trimming.
	ErrEmptySequence = errors.New("DNA sequence cannot be empty")
	// ErrInvalidK signals a k-mer size that is not a positive integer.
	ErrInvalidK = errors.New("K value must be a positive integer")

	// ErrTransport signals that the matching service could not be reached.
	ErrTransport = errors.New("matching service unreachable")
	// ErrService signals a non-success status from the matching service.
	ErrService = errors.New("matching service error")
	// ErrDecode signals a response body that is not a valid search response.
	ErrDecode = errors.New("malformed matching service response")

	// ErrSearchInFlight signals a submission while another search is still running.
	ErrSearchInFlight = errors.New("search already in progress")
)

// IsValidation reports whether err was produced by input validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptySequence) || errors.Is(err, ErrInvalidK)
}

// IsFetch reports whether err came from talking to the matching service.
func IsFetch(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrService) || errors.Is(err, ErrDecode)
}
