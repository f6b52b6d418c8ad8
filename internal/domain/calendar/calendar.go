// Package calendar buckets records into days and ISO weeks and reindexes
// series over contiguous day ranges.
package calendar

import (
	"sort"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

const secondsPerDay = 24 * 60 * 60

// ISOWeekOf returns the ISO-8601 year and week number of d.
// Dates near the turn of the year may belong to the neighbouring ISO year.
func ISOWeekOf(d model.Date) (year, week int) {
	return d.Time().ISOWeek()
}

// WeekOf returns the ISO week key of d.
func WeekOf(d model.Date) model.WeekKey {
	y, w := ISOWeekOf(d)
	return model.WeekKey{Year: y, Week: w}
}

// DateRange lists every day in [start, end]. It is empty when start is after end.
func DateRange(start, end model.Date) []model.Date {
	if start.After(end) {
		return nil
	}
	var out []model.Date
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// DaysBetween is the number of days from start to end, negative when end
// is earlier. It is exact for any year, far outside time.Duration's range.
func DaysBetween(start, end model.Date) int {
	return int((end.Time().Unix() - start.Time().Unix()) / secondsPerDay)
}

// FillCalendarGaps returns one point per day in [start, end]. Days present
// in s keep their value (the last one wins on duplicates), all other days
// get fill. Points of s outside the window are dropped.
func FillCalendarGaps(s model.MetricSeries, start, end model.Date, fill float64) model.MetricSeries {
	byDay := make(map[model.Date]float64, len(s.Points))
	for _, p := range s.Points {
		byDay[p.Date] = p.Value
	}
	days := DateRange(start, end)
	out := model.MetricSeries{Metric: s.Metric, Points: make([]model.Point, 0, len(days))}
	for _, d := range days {
		v, ok := byDay[d]
		if !ok {
			v = fill
		}
		out.Points = append(out.Points, model.Point{Date: d, Value: v})
	}
	return out
}

// SumByWeek groups a daily series by ISO week and sums the values.
// The result is ordered chronologically.
func SumByWeek(s model.MetricSeries) []model.WeekPoint {
	sums := make(map[model.WeekKey]float64)
	for _, p := range s.Points {
		sums[WeekOf(p.Date)] += p.Value
	}
	out := make([]model.WeekPoint, 0, len(sums))
	for k, v := range sums {
		out = append(out, model.WeekPoint{WeekKey: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekKey.Less(out[j].WeekKey) })
	return out
}

// SortedUnique returns the distinct dates in ascending order.
func SortedUnique(dates []model.Date) []model.Date {
	seen := make(map[model.Date]struct{}, len(dates))
	out := make([]model.Date, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// DefaultWindow picks the display window ending at the latest date and
// starting back sessions distinct dates earlier, clamped to the first date.
// ok is false when dates is empty.
func DefaultWindow(dates []model.Date, back int) (start, end model.Date, ok bool) {
	uniq := SortedUnique(dates)
	if len(uniq) == 0 {
		return model.Date{}, model.Date{}, false
	}
	if back < 0 {
		back = 0
	}
	last := len(uniq) - 1
	first := last - back
	if first < 0 {
		first = 0
	}
	return uniq[first], uniq[last], true
}
