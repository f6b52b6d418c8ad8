package model

import (
	"errors"
	"math"
)

// ErrMissingReference is returned when a ratio is requested against a zero,
// negative or undefined reference.
var ErrMissingReference = errors.New("missing reference")

// ValidReference reports whether ref can divide a value: finite and positive.
func ValidReference(ref float64) bool {
	return !math.IsNaN(ref) && !math.IsInf(ref, 0) && ref > 0
}
