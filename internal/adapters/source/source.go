// Package source loads the GPS session export and the RPE questionnaire
// from local files, a shared drive or a spreadsheet, and parses them into
// the fixed domain schema.
package source

import (
	"context"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// GPSSource supplies raw GPS session records.
type GPSSource interface {
	Sessions(ctx context.Context) ([]model.SessionRecord, error)
}

// RPESource supplies raw questionnaire responses.
type RPESource interface {
	Responses(ctx context.Context) ([]model.RpeResponse, error)
}

// Source supplies both tables.
type Source interface {
	GPSSource
	RPESource
}

// Invalidator is implemented by sources that memoize their tables. A
// refresh drops the memoized tables so it reads the upstream again.
type Invalidator interface {
	Invalidate()
}

// Pair combines independent GPS and RPE sources into a Source.
type Pair struct {
	GPS GPSSource
	RPE RPESource
}

// Sessions implements GPSSource.
func (p Pair) Sessions(ctx context.Context) ([]model.SessionRecord, error) {
	return p.GPS.Sessions(ctx)
}

// Responses implements RPESource.
func (p Pair) Responses(ctx context.Context) ([]model.RpeResponse, error) {
	return p.RPE.Responses(ctx)
}

// Static serves fixed tables, for tests and offline tools.
type Static struct {
	Records []model.SessionRecord
	Answers []model.RpeResponse
}

// Sessions implements GPSSource.
func (s Static) Sessions(context.Context) ([]model.SessionRecord, error) {
	out := make([]model.SessionRecord, len(s.Records))
	copy(out, s.Records)
	return out, nil
}

// Responses implements RPESource.
func (s Static) Responses(context.Context) ([]model.RpeResponse, error) {
	out := make([]model.RpeResponse, len(s.Answers))
	copy(out, s.Answers)
	return out, nil
}
