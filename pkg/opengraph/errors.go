package opengraph

import (
	"errors"
	"fmt"
)

// Kind classifies why a preview could not be produced
type Kind int

// Error kinds returned by NormalizeURL and Fetcher.Fetch
const (
	KindValidation Kind = iota + 1
	KindFetch
	KindNoData
	KindExtraction
)

// Sentinel errors for use with errors.Is
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrFetch      = &Error{Kind: KindFetch}
	ErrNoData     = &Error{Kind: KindNoData}
	ErrExtraction = &Error{Kind: KindExtraction}
)

// String returns the kind name used in logs
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindFetch:
		return "fetch"
	case KindNoData:
		return "no_data"
	case KindExtraction:
		return "extraction"
	default:
		return "unknown"
	}
}

// Error is a classified preview failure. Error() returns the message shown to users;
// the underlying cause, if any, is available through Unwrap.
type Error struct {
	Kind   Kind
	Status string // HTTP status text, KindFetch only
	Err    error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return "Invalid URL format"
	case KindFetch:
		return fmt.Sprintf("Failed to fetch URL: %s", e.Status)
	case KindNoData:
		return "No Open Graph data found for this URL"
	default:
		return "Failed to fetch or parse Open Graph data"
	}
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of a classified error, or KindExtraction for anything else
func KindOf(err error) Kind {
	var ogErr *Error
	if errors.As(err, &ogErr) {
		return ogErr.Kind
	}
	return KindExtraction
}

func newValidationError(cause error) *Error {
	return &Error{Kind: KindValidation, Err: cause}
}

func newFetchError(status string) *Error {
	return &Error{Kind: KindFetch, Status: status}
}

func newExtractionError(cause error) *Error {
	return &Error{Kind: KindExtraction, Err: cause}
}
