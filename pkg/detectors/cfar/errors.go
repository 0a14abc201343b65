package cfar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProbability is returned when pfa is outside (0, 1).
	ErrInvalidProbability = errors.New("cfar: false alarm probability must be in (0, 1)")

	// ErrModelParameter is returned for missing or non-positive distribution parameters.
	ErrModelParameter = errors.New("cfar: invalid distribution parameter")

	// ErrInsufficientWindow is returned when a reference window cannot be formed.
	ErrInsufficientWindow = errors.New("cfar: insufficient reference window")

	// ErrConfiguration is returned when window sizes are inconsistent.
	ErrConfiguration = errors.New("cfar: invalid configuration")

	// ErrInvalidSample is returned for negative or non-finite samples.
	ErrInvalidSample = errors.New("cfar: invalid sample")
)

// windowError records the cell under test that lacked a reference window.
type windowError struct {
	index int
}

func (e *windowError) Error() string {
	return fmt.Sprintf("%s at index %d", ErrInsufficientWindow, e.index)
}

func (e *windowError) Unwrap() error {
	return ErrInsufficientWindow
}
