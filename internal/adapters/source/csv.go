package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// ReadCSV reads every row of a comma-separated table. Rows may have
// varying widths.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	return rows, nil
}

// ParseSessionsCSV parses a GPS export in CSV form.
func ParseSessionsCSV(r io.Reader) ([]model.SessionRecord, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return ParseSessionRows(rows)
}

// ParseResponsesCSV parses questionnaire answers in CSV form.
func ParseResponsesCSV(r io.Reader, offset time.Duration) ([]model.RpeResponse, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return ParseResponseRows(rows, offset)
}

// FileGPS reads the GPS export from a local CSV file.
type FileGPS struct {
	Path string
}

// Sessions implements GPSSource.
func (f FileGPS) Sessions(ctx context.Context) ([]model.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open gps export: %w", err)
	}
	defer func() { _ = fh.Close() }()
	recs, err := ParseSessionsCSV(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return recs, nil
}

// FileRPE reads questionnaire answers from a local CSV file.
type FileRPE struct {
	Path string
	// Offset shifts submission timestamps into the team's time zone.
	Offset time.Duration
}

// Responses implements RPESource.
func (f FileRPE) Responses(ctx context.Context) ([]model.RpeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open rpe answers: %w", err)
	}
	defer func() { _ = fh.Close() }()
	resp, err := ParseResponsesCSV(fh, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return resp, nil
}
