package repository

import (
	"sort"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/calendar"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// Dataset is an immutable snapshot of both tables plus lookup indices.
// Nothing reachable from a Dataset may be mutated after NewDataset returns.
type Dataset struct {
	Version     uint64
	PublishedAt time.Time

	sessions  []model.SessionRecord
	responses []model.RpeResponse

	athletes     []string
	sessionDates []model.Date
	rpeDates     []model.Date
	byAthlete    map[string][]int
	byDate       map[model.Date][]int
	rpeByDate    map[model.Date][]int
}

// NewDataset indexes the given tables. The slices are copied and sorted by
// time, so callers may reuse theirs.
func NewDataset(sessions []model.SessionRecord, responses []model.RpeResponse) *Dataset {
	ds := &Dataset{
		sessions:  append([]model.SessionRecord(nil), sessions...),
		responses: append([]model.RpeResponse(nil), responses...),
		byAthlete: make(map[string][]int),
		byDate:    make(map[model.Date][]int),
		rpeByDate: make(map[model.Date][]int),
	}
	sort.SliceStable(ds.sessions, func(i, j int) bool {
		a, b := ds.sessions[i], ds.sessions[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.AthleteID < b.AthleteID
	})
	sort.SliceStable(ds.responses, func(i, j int) bool {
		a, b := ds.responses[i], ds.responses[j]
		if a.SessionDate != b.SessionDate {
			return a.SessionDate.Before(b.SessionDate)
		}
		return a.AthleteID < b.AthleteID
	})

	seen := make(map[string]struct{})
	var dates []model.Date
	for i, r := range ds.sessions {
		d := r.Date()
		ds.byAthlete[r.AthleteID] = append(ds.byAthlete[r.AthleteID], i)
		ds.byDate[d] = append(ds.byDate[d], i)
		dates = append(dates, d)
		if _, ok := seen[r.AthleteID]; !ok {
			seen[r.AthleteID] = struct{}{}
			ds.athletes = append(ds.athletes, r.AthleteID)
		}
	}
	ds.sessionDates = calendar.SortedUnique(dates)

	dates = dates[:0]
	for i, r := range ds.responses {
		ds.rpeByDate[r.SessionDate] = append(ds.rpeByDate[r.SessionDate], i)
		dates = append(dates, r.SessionDate)
		if _, ok := seen[r.AthleteID]; !ok {
			seen[r.AthleteID] = struct{}{}
			ds.athletes = append(ds.athletes, r.AthleteID)
		}
	}
	ds.rpeDates = calendar.SortedUnique(dates)
	sort.Strings(ds.athletes)
	return ds
}

// Sessions returns every session record ordered by time. Do not modify.
func (d *Dataset) Sessions() []model.SessionRecord { return d.sessions }

// Responses returns every RPE response ordered by session date. Do not modify.
func (d *Dataset) Responses() []model.RpeResponse { return d.responses }

// Athletes lists every athlete in either table, sorted.
func (d *Dataset) Athletes() []string { return d.athletes }

// HasAthlete reports whether athlete appears in either table.
func (d *Dataset) HasAthlete(athlete string) bool {
	i := sort.SearchStrings(d.athletes, athlete)
	return i < len(d.athletes) && d.athletes[i] == athlete
}

// SessionDates lists distinct GPS session dates in ascending order.
func (d *Dataset) SessionDates() []model.Date { return d.sessionDates }

// RPEDates lists distinct questionnaire session dates in ascending order.
func (d *Dataset) RPEDates() []model.Date { return d.rpeDates }

// AthleteSessions returns the records of one athlete, or ErrNotFound.
func (d *Dataset) AthleteSessions(athlete string) ([]model.SessionRecord, error) {
	idx, ok := d.byAthlete[athlete]
	if !ok {
		return nil, ErrNotFound
	}
	return d.pickSessions(idx), nil
}

// SessionsOn returns the records of one calendar day.
func (d *Dataset) SessionsOn(day model.Date) []model.SessionRecord {
	return d.pickSessions(d.byDate[day])
}

// SessionsBetween returns records whose day lies in [start, end].
func (d *Dataset) SessionsBetween(start, end model.Date) []model.SessionRecord {
	var out []model.SessionRecord
	for _, r := range d.sessions {
		if r.Date().Within(start, end) {
			out = append(out, r)
		}
	}
	return out
}

// ResponsesOn returns the answers for one session date.
func (d *Dataset) ResponsesOn(day model.Date) []model.RpeResponse {
	idx := d.rpeByDate[day]
	out := make([]model.RpeResponse, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.responses[i])
	}
	return out
}

// ResponsesBetween returns answers whose session date lies in [start, end].
func (d *Dataset) ResponsesBetween(start, end model.Date) []model.RpeResponse {
	var out []model.RpeResponse
	for _, r := range d.responses {
		if r.SessionDate.Within(start, end) {
			out = append(out, r)
		}
	}
	return out
}

func (d *Dataset) pickSessions(idx []int) []model.SessionRecord {
	out := make([]model.SessionRecord, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.sessions[i])
	}
	return out
}
