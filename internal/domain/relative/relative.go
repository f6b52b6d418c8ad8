// Package relative scales metric series against a game-level reference
// taken from the best observed values of the whole population.
package relative

import (
	"fmt"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/stats"
)

// DefaultTopN is how many of the highest values form the reference.
const DefaultTopN = 5

// ReferenceFor is the mean of the topN highest values of metric across all
// records, match or not. Fewer values than topN are all used.
func ReferenceFor(metric model.Metric, population []model.SessionRecord, topN int) (float64, error) {
	xs := make([]float64, 0, len(population))
	for _, r := range population {
		xs = append(xs, r.Value(metric))
	}
	ref, ok := stats.TopNMean(xs, topN)
	if !ok {
		return 0, fmt.Errorf("%w: no %s values", model.ErrMissingReference, metric)
	}
	if !model.ValidReference(ref) {
		return 0, fmt.Errorf("%w: %s reference %v", model.ErrMissingReference, metric, ref)
	}
	return ref, nil
}

// ScaleSeries divides every value by reference and rounds to two decimals.
// A reference that is not finite and positive is rejected.
func ScaleSeries(s model.MetricSeries, reference float64) (model.MetricSeries, error) {
	if !model.ValidReference(reference) {
		return model.MetricSeries{}, fmt.Errorf("%w: %s reference %v", model.ErrMissingReference, s.Metric, reference)
	}
	out := model.MetricSeries{Metric: s.Metric, Points: make([]model.Point, len(s.Points))}
	for i, p := range s.Points {
		out.Points[i] = model.Point{Date: p.Date, Value: stats.Round2(p.Value / reference)}
	}
	return out, nil
}

// ScaleWeeks divides weekly values by reference and rounds to two decimals.
func ScaleWeeks(weeks []model.WeekPoint, reference float64) ([]model.WeekPoint, error) {
	if !model.ValidReference(reference) {
		return nil, fmt.Errorf("%w: reference %v", model.ErrMissingReference, reference)
	}
	out := make([]model.WeekPoint, len(weeks))
	for i, w := range weeks {
		out[i] = model.WeekPoint{WeekKey: w.WeekKey, Value: stats.Round2(w.Value / reference)}
	}
	return out, nil
}

// Stack adds scaled series point by point. All series must cover the same
// dates in the same order; the result keeps the dates of the first.
func Stack(series ...model.MetricSeries) model.MetricSeries {
	if len(series) == 0 {
		return model.MetricSeries{}
	}
	out := model.MetricSeries{Metric: series[0].Metric, Points: make([]model.Point, len(series[0].Points))}
	copy(out.Points, series[0].Points)
	for _, s := range series[1:] {
		for i := range out.Points {
			if i < len(s.Points) {
				out.Points[i].Value += s.Points[i].Value
			}
		}
	}
	for i := range out.Points {
		out.Points[i].Value = stats.Round2(out.Points[i].Value)
	}
	return out
}
