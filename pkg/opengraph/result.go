package opengraph

import (
	"encoding/json"
	"errors"
)

// Result is the outcome of a preview: either Data or Error is set, never both.
type Result struct {
	Data  *Record
	Error string
	Kind  Kind // zero on success
}

// NewResult folds a Fetch return pair into a Result. Errors that are not *Error are
// reported as extraction failures.
func NewResult(record *Record, err error) Result {
	if err == nil && record != nil {
		return Result{Data: record}
	}

	var ogErr *Error
	if !errors.As(err, &ogErr) {
		ogErr = newExtractionError(err)
	}

	return Result{Error: ogErr.Error(), Kind: ogErr.Kind}
}

// OK reports whether the result carries a record
func (r Result) OK() bool {
	return r.Data != nil
}

// MarshalJSON encodes the result as {"data": ..., "error": ...} with null for the unset side
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data  *Record `json:"data"`
		Error *string `json:"error"`
	}{
		Data:  r.Data,
		Error: nullable(r.Error),
	})
}
