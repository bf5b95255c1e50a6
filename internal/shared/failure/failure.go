// Package failure defines the error kinds shared by the data and computation layers.
//
// A Kind tells the caller whether a request failed because there was not enough
// data, because an upstream provider failed, because of a bug in the computation,
// or because the request itself was invalid.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that carry no Kind.
	KindUnknown Kind = iota
	// KindInsufficientData means the data exists but is too short or empty for the requested computation.
	KindInsufficientData
	// KindFetchFailure means an upstream provider (market data, generative AI) failed.
	KindFetchFailure
	// KindComputeFailure means the computation itself failed (programming error).
	KindComputeFailure
	// KindInvalidInput means the request was malformed (unknown timeframe, empty symbol, ...).
	KindInvalidInput
)

// String returns the snake_case name used in API responses.
func (k Kind) String() string {
	switch k {
	case KindInsufficientData:
		return "insufficient_data"
	case KindFetchFailure:
		return "fetch_failure"
	case KindComputeFailure:
		return "compute_failure"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is an error annotated with a Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on Kind alone: errors.Is(err, &failure.Error{Kind: failure.KindFetchFailure}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// New wraps err with kind and op.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// InsufficientData builds a KindInsufficientData error with a formatted message.
func InsufficientData(op, format string, args ...any) error {
	return &Error{Kind: KindInsufficientData, Op: op, Err: fmt.Errorf(format, args...)}
}

// Fetch wraps an upstream error as KindFetchFailure.
func Fetch(op string, err error) error {
	return &Error{Kind: KindFetchFailure, Op: op, Err: err}
}

// Compute wraps a computation error as KindComputeFailure.
func Compute(op string, err error) error {
	return &Error{Kind: KindComputeFailure, Op: op, Err: err}
}

// Invalid builds a KindInvalidInput error with a formatted message.
func Invalid(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
