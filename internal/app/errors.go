package service

import "errors"

// Request-level errors. Panel-level failures are reported inside reports.
var (
	ErrNoData         = errors.New("no data")
	ErrUnknownAthlete = errors.New("unknown athlete")
	ErrInvalidRange   = errors.New("invalid date range")
)
