package model

import (
	"math"
	"time"
)

// SessionRecord is one athlete's GPS summary for one training or match event.
// Missing metric cells hold NaN.
type SessionRecord struct {
	AthleteID string
	Timestamp time.Time
	IsMatch   bool
	Values    [NumMetrics]float64
}

// NewSessionRecord returns a record whose metrics are all missing.
func NewSessionRecord(athlete string, ts time.Time, isMatch bool) SessionRecord {
	r := SessionRecord{AthleteID: athlete, Timestamp: ts, IsMatch: isMatch}
	for i := range r.Values {
		r.Values[i] = math.NaN()
	}
	return r
}

// Value returns the metric value, NaN when missing or m is unknown.
func (r SessionRecord) Value(m Metric) float64 {
	if !m.Valid() {
		return math.NaN()
	}
	return r.Values[m]
}

// Set stores v for metric m. Unknown metrics are ignored.
func (r *SessionRecord) Set(m Metric, v float64) {
	if m.Valid() {
		r.Values[m] = v
	}
}

// Date is the calendar day of the session.
func (r SessionRecord) Date() Date { return DateOf(r.Timestamp) }

// RpeResponse is one self-reported exertion score.
type RpeResponse struct {
	AthleteID   string
	SessionDate Date
	RPE         int
	Timestamp   time.Time
}

// ISOWeek returns the ISO-8601 year and week of the session date.
func (r RpeResponse) ISOWeek() (year, week int) {
	return r.SessionDate.Time().ISOWeek()
}
