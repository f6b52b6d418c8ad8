package model

// Point is one dated value of a series.
type Point struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
}

// MetricSeries is a date-ordered run of values for one metric of one
// athlete, the team or the population.
type MetricSeries struct {
	Metric Metric  `json:"metric"`
	Points []Point `json:"points"`
}

// Len returns the number of points.
func (s MetricSeries) Len() int { return len(s.Points) }

// Values returns the point values in order.
func (s MetricSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Lookup returns the value stored for d.
func (s MetricSeries) Lookup(d Date) (float64, bool) {
	for _, p := range s.Points {
		if p.Date == d {
			return p.Value, true
		}
	}
	return 0, false
}

// WeekKey identifies an ISO-8601 week.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Less orders weeks chronologically.
func (w WeekKey) Less(o WeekKey) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.Week < o.Week
}

// WeekPoint is one ISO week's value.
type WeekPoint struct {
	WeekKey
	Value float64 `json:"value"`
}
