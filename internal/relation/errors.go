package relation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOutcomeCode is returned when a grid cell is not 'D', 'W' or 'L'.
	ErrInvalidOutcomeCode = errors.New("invalid outcome code")
	// ErrInconsistentRelation is returned when a derived reverse outcome
	// disagrees with an explicitly supplied one.
	ErrInconsistentRelation = errors.New("inconsistent relation")
	// ErrMissingRelation is returned when an ordered pair has no outcome.
	ErrMissingRelation = errors.New("missing relation")
	// ErrInvalidGrid is returned when the grid shape does not fit the symbol count.
	ErrInvalidGrid = errors.New("invalid relation grid")
)

// CellError locates a failure at an ordered symbol pair. Row and Col are
// 1-based symbol indices.
type CellError struct {
	Row int
	Col int
	Msg string
	Err error
}

func (e *CellError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%v at (%d,%d)", e.Err, e.Row, e.Col)
	}
	return fmt.Sprintf("%v at (%d,%d): %s", e.Err, e.Row, e.Col, e.Msg)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
