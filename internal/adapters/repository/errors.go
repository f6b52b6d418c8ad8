package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrNotFound = errors.New("athlete not found")
	ErrNoData   = errors.New("no dataset published")
)
