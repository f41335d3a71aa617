package ants

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	ErrNotEnoughPoints = fmt.Errorf("%w: at least two points are required", ErrInvalidInput)
)

// ErrBadParameter reports a parameter outside of its domain. It matches
// ErrInvalidInput with errors.Is.
type ErrBadParameter struct {
	Name  string
	Value interface{}
	Want  string
}

func (err ErrBadParameter) Error() string {
	return fmt.Sprintf("%s: %s is %v, must be %s", ErrInvalidInput, err.Name, err.Value, err.Want)
}

func (err ErrBadParameter) Is(target error) bool {
	return target == ErrInvalidInput
}

// ErrBadPoint reports a point with a non-finite coordinate.
type ErrBadPoint struct {
	Index int
	Point Point
}

func (err ErrBadPoint) Error() string {
	return fmt.Sprintf("%s: point %d has non-finite coordinates (%v, %v)",
		ErrInvalidInput, err.Index, err.Point.X, err.Point.Y)
}

func (err ErrBadPoint) Is(target error) bool {
	return target == ErrInvalidInput
}
