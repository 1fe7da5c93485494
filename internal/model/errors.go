package model

import (
	"errors"
	"fmt"
)

// ErrInvalidDimensions is wrapped by every ValidationError.
var ErrInvalidDimensions = errors.New("width and height must be positive")

// ValidationError reports a block or container with non-positive dimensions.
type ValidationError struct {
	Subject string // "block" or "container"
	Index   int    // Block sequence number, -1 for the container
	Width   float64
	Height  float64
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid %s %d (%gx%g): %v", e.Subject, e.Index, e.Width, e.Height, ErrInvalidDimensions)
	}
	return fmt.Sprintf("invalid %s (%gx%g): %v", e.Subject, e.Width, e.Height, ErrInvalidDimensions)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDimensions
}
