// Package aggregate reduces per-session rows into per-date rows for the
// team or per (date, athlete) rows, column by column.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/calendar"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/stats"
)

// Reducer is how one column of a group collapses to a single value.
type Reducer int

const (
	Mean Reducer = iota
	Count
	Sum
	First
)

func (r Reducer) String() string {
	switch r {
	case Mean:
		return "mean"
	case Count:
		return "count"
	case Sum:
		return "sum"
	case First:
		return "first"
	default:
		return "unknown"
	}
}

// ParseReducer parses a reducer name.
func ParseReducer(s string) (Reducer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean":
		return Mean, nil
	case "count":
		return Count, nil
	case "sum":
		return Sum, nil
	case "first":
		return First, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReducer, s)
}

// Plan assigns a reducer to each metric column that should be kept.
type Plan map[model.Metric]Reducer

// TeamPlan is the per-date team reduction used by the trend reports.
func TeamPlan() Plan {
	p := Plan{}
	for _, m := range []model.Metric{
		model.DurationMin, model.TotalDistance, model.MaxSpeed, model.AvgSpeed,
		model.MPECount, model.MPEAvgTime, model.AccEvents, model.DecEvents,
		model.MaxAcc, model.MaxDec, model.Energy, model.AnEnergy,
		model.MPEAvgPower, model.MPEAvgRecTime, model.HSRDistance, model.SprintDistance,
	} {
		p[m] = Mean
	}
	return p
}

// MeanPlan reduces every listed metric with Mean.
func MeanPlan(ms ...model.Metric) Plan {
	p := make(Plan, len(ms))
	for _, m := range ms {
		p[m] = Mean
	}
	return p
}

// Row is one reduced group. Values outside the plan are 0; a planned
// column with no present value in the group is also 0.
type Row struct {
	Date      model.Date
	AthleteID string
	// Records is the number of rows merged into the group.
	Records int
	// IsMatch is taken from the first row of the group.
	IsMatch bool
	Values  [model.NumMetrics]float64
}

// Value returns the reduced value of m.
func (r Row) Value(m model.Metric) float64 {
	if !m.Valid() {
		return 0
	}
	return r.Values[m]
}

// Table is the ordered output of a reduction.
type Table struct {
	Plan Plan
	Rows []Row
	// Disagreements counts groups whose rows did not agree on IsMatch.
	Disagreements int
}

type groupKey struct {
	date    model.Date
	athlete string
}

type group struct {
	rows      []model.SessionRecord
	disagrees bool
}

// ByDate groups records by calendar date regardless of athlete.
func ByDate(records []model.SessionRecord, plan Plan) Table {
	return reduce(records, plan, false)
}

// ByAthleteDate groups records by (date, athlete).
func ByAthleteDate(records []model.SessionRecord, plan Plan) Table {
	return reduce(records, plan, true)
}

func reduce(records []model.SessionRecord, plan Plan, perAthlete bool) Table {
	groups := make(map[groupKey]*group)
	order := make([]groupKey, 0)
	for _, rec := range records {
		k := groupKey{date: rec.Date()}
		if perAthlete {
			k.athlete = rec.AthleteID
		}
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		} else if g.rows[0].IsMatch != rec.IsMatch {
			g.disagrees = true
		}
		g.rows = append(g.rows, rec)
	}

	t := Table{Plan: plan, Rows: make([]Row, 0, len(order))}
	col := make([]float64, 0)
	for _, k := range order {
		g := groups[k]
		row := Row{Date: k.date, AthleteID: k.athlete, Records: len(g.rows), IsMatch: g.rows[0].IsMatch}
		for m, r := range plan {
			if !m.Valid() {
				continue
			}
			col = col[:0]
			for _, rec := range g.rows {
				col = append(col, rec.Values[m])
			}
			row.Values[m] = apply(r, col)
		}
		if g.disagrees {
			t.Disagreements++
		}
		t.Rows = append(t.Rows, row)
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.AthleteID < b.AthleteID
	})
	return t
}

func apply(r Reducer, col []float64) float64 {
	switch r {
	case Mean:
		v, _ := stats.Mean(col)
		return v
	case Count:
		return float64(stats.Count(col))
	case Sum:
		return stats.Sum(col)
	case First:
		p := stats.Present(col)
		if len(p) == 0 {
			return 0
		}
		return p[0]
	}
	return 0
}

// Series extracts one column as a date series. For per-athlete tables,
// pass the athlete to select; an empty athlete selects every row.
func (t Table) Series(m model.Metric, athlete string) model.MetricSeries {
	s := model.MetricSeries{Metric: m}
	for _, r := range t.Rows {
		if athlete != "" && r.AthleteID != athlete {
			continue
		}
		s.Points = append(s.Points, model.Point{Date: r.Date, Value: r.Value(m)})
	}
	return s
}

// RecordCounts is the number of merged rows per date, e.g. athletes per
// session in a team table.
func (t Table) RecordCounts() []model.Point {
	out := make([]model.Point, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, model.Point{Date: r.Date, Value: float64(r.Records)})
	}
	return out
}

// MatchDays returns the dates whose group is flagged as a match.
func (t Table) MatchDays() map[model.Date]bool {
	out := make(map[model.Date]bool, len(t.Rows))
	for _, r := range t.Rows {
		if r.IsMatch {
			out[r.Date] = true
		}
	}
	return out
}

// Weekly sums a daily series by ISO week. Applied to a series of daily
// means this yields weekly sums of daily means, not sums of raw events.
func Weekly(daily model.MetricSeries) []model.WeekPoint {
	return calendar.SumByWeek(daily)
}
