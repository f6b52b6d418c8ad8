package baseline

import "errors"

// ErrEmptyPopulation is returned when no record carries a value for the metric.
var ErrEmptyPopulation = errors.New("empty population")
