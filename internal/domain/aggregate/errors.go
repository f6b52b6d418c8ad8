package aggregate

import "errors"

// ErrUnknownReducer is returned when a reducer name cannot be parsed.
var ErrUnknownReducer = errors.New("unknown reducer")
