// Package bands maps metric values to qualitative bands and display colors.
package bands

import (
	"fmt"
	"math"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// Default thresholds and colors.
const (
	DefaultLowThreshold  = 40.0
	DefaultHighThreshold = 80.0

	ColorLow     = "tomato"
	ColorNeutral = "steelblue"
	ColorHigh    = "forestgreen"

	ColorNormal  = "skyblue"
	ColorWarning = "#ffcc00"
	ColorDanger  = "tomato"
)

// Band is a qualitative label.
type Band string

// Reference bands.
const (
	Low     Band = "low"
	Neutral Band = "neutral"
	High    Band = "high"
)

// Statistical bands.
const (
	Normal  Band = "normal"
	Warning Band = "warning"
	Danger  Band = "danger"
)

// Result is the classification of a value against a reference.
type Result struct {
	Band  Band   `json:"band"`
	Color string `json:"color"`
	// Percentage is value / reference * 100.
	Percentage float64 `json:"percentage"`
	// Label is Percentage truncated toward zero, as shown on charts.
	Label int `json:"label"`
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithThresholds sets the low and high percentage thresholds.
// Ignored unless 0 <= low < high.
func WithThresholds(low, high float64) Option {
	return func(c *Classifier) {
		if low >= 0 && high > low {
			c.low = low
			c.high = high
		}
	}
}

// WithInverseMetrics marks metrics where lower values are better.
// It replaces the default set.
func WithInverseMetrics(ms ...model.Metric) Option {
	return func(c *Classifier) {
		c.inverse = make(map[model.Metric]bool, len(ms))
		for _, m := range ms {
			c.inverse[m] = true
		}
	}
}

// WithDiscreteScale sets the table used by ClassifyDiscrete.
func WithDiscreteScale(s DiscreteScale) Option {
	return func(c *Classifier) {
		c.scale = s
	}
}

// Classifier holds immutable thresholds and color tables. It is safe for
// concurrent use once built.
type Classifier struct {
	low, high float64
	inverse   map[model.Metric]bool
	scale     DiscreteScale
}

// NewClassifier creates a classifier with the 40/80 thresholds, the RPE
// scale and mpe_avg_rec_time as the inverse-sense metric.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		low:     DefaultLowThreshold,
		high:    DefaultHighThreshold,
		inverse: make(map[model.Metric]bool),
		scale:   RPEScale(),
	}
	for _, m := range model.InverseFeatures() {
		c.inverse[m] = true
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Thresholds returns the low and high thresholds.
func (c *Classifier) Thresholds() (low, high float64) { return c.low, c.high }

// IsInverse reports whether m is classified with swapped colors.
func (c *Classifier) IsInverse(m model.Metric) bool { return c.inverse[m] }

// Scale returns the discrete scale.
func (c *Classifier) Scale() DiscreteScale { return c.scale }

// Classify bands value against reference. Below the low threshold is Low,
// above the high threshold is High, and both thresholds themselves are
// Neutral. inverse swaps the Low and High colors only.
func (c *Classifier) Classify(value, reference float64, inverse bool) (Result, error) {
	if !model.ValidReference(reference) {
		return Result{}, fmt.Errorf("%w: reference %v", ErrMissingReference, reference)
	}
	if math.IsNaN(value) {
		value = 0
	}
	pct := value / reference * 100
	res := Result{Percentage: pct, Label: int(pct), Band: Neutral, Color: ColorNeutral}
	switch {
	case pct < c.low:
		res.Band, res.Color = Low, ColorLow
		if inverse {
			res.Color = ColorHigh
		}
	case pct > c.high:
		res.Band, res.Color = High, ColorHigh
		if inverse {
			res.Color = ColorLow
		}
	}
	return res, nil
}

// ClassifyMetric is Classify with the inverse flag taken from m.
func (c *Classifier) ClassifyMetric(m model.Metric, value, reference float64) (Result, error) {
	return c.Classify(value, reference, c.IsInverse(m))
}

// ClassifySeries classifies each value against one reference and returns
// the parallel color and label arrays.
func (c *Classifier) ClassifySeries(m model.Metric, values []float64, reference float64) (colors []string, labels []int, err error) {
	colors = make([]string, len(values))
	labels = make([]int, len(values))
	for i, v := range values {
		r, err := c.ClassifyMetric(m, v, reference)
		if err != nil {
			return nil, nil, err
		}
		colors[i] = r.Color
		labels[i] = r.Label
	}
	return colors, labels, nil
}
