package arow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for bad construction parameters or
	// non-finite feature values.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidLabel is returned when a label is not +1 or -1.
	ErrInvalidLabel = errors.New("label must be +1 or -1")

	// ErrCorruptData is returned when a persisted model fails invariant
	// re-validation on load.
	ErrCorruptData = errors.New("corrupt model data")
)

// ErrIndexOutOfRange indicates a feature index outside the declared dimension.
type ErrIndexOutOfRange struct {
	Index     int
	Dimension int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("feature index %d out of range [0, %d)", e.Index, e.Dimension)
}

// ErrDimensionMismatch indicates an attempt to merge models of different
// dimensions.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
