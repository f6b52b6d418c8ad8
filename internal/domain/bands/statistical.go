package bands

import (
	"math"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/stats"
)

// StatResult is a value judged against its own history.
type StatResult struct {
	Band  Band    `json:"band"`
	Color string  `json:"color"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	// Observations is the number of history values used.
	Observations int `json:"observations"`
}

// ClassifyStatistical is Danger when value is more than two standard
// deviations from mean, Warning when more than one, else Normal. An
// undefined std is Normal.
func (c *Classifier) ClassifyStatistical(value, mean, std float64) (Band, string) {
	if math.IsNaN(std) || math.IsNaN(mean) || math.IsNaN(value) {
		return Normal, ColorNormal
	}
	d := math.Abs(value - mean)
	switch {
	case d > 2*std:
		return Danger, ColorDanger
	case d > std:
		return Warning, ColorWarning
	}
	return Normal, ColorNormal
}

// ClassifyHistory bands value against the mean and sample std of history.
// With fewer than two observations the band is Normal.
func (c *Classifier) ClassifyHistory(value float64, history []float64) StatResult {
	res := StatResult{Band: Normal, Color: ColorNormal, Observations: stats.Count(history)}
	mean, ok := stats.Mean(history)
	if ok {
		res.Mean = mean
	}
	std, ok := stats.SampleStd(history)
	if !ok {
		return res
	}
	res.Std = std
	res.Band, res.Color = c.ClassifyStatistical(value, mean, std)
	return res
}
