package source

import "errors"

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrDuplicateColumn is returned when two headers name the same metric.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrMalformedRow is returned when a cell cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")
	// ErrEmptyTable is returned when a table has no header row.
	ErrEmptyTable = errors.New("empty table")
	// ErrFetch wraps transport failures of remote sources.
	ErrFetch = errors.New("fetch failed")
)
