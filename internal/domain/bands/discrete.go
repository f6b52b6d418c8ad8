package bands

import (
	"fmt"
	"math"
)

// Level is one entry of a discrete scale.
type Level struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// DiscreteScale maps integer scores in [Min, Max] to levels. The zero value
// maps nothing.
type DiscreteScale struct {
	min    int
	levels []Level
}

// Step assigns a named color to the scores in [From, To].
type Step struct {
	From, To int
	Name     string
	Color    string
}

// NewDiscreteScale builds a scale from contiguous steps starting at the
// first step's From.
func NewDiscreteScale(steps ...Step) (DiscreteScale, error) {
	if len(steps) == 0 {
		return DiscreteScale{}, fmt.Errorf("%w: no steps", ErrInvalidScale)
	}
	s := DiscreteScale{min: steps[0].From}
	next := s.min
	for _, st := range steps {
		if st.From != next || st.To < st.From {
			return DiscreteScale{}, fmt.Errorf("%w: step %d-%d", ErrInvalidScale, st.From, st.To)
		}
		for v := st.From; v <= st.To; v++ {
			s.levels = append(s.levels, Level{Value: v, Name: st.Name, Color: st.Color})
		}
		next = st.To + 1
	}
	return s, nil
}

// RPEScale is the 1-10 perceived exertion scale.
func RPEScale() DiscreteScale {
	s, _ := NewDiscreteScale(
		Step{From: 1, To: 1, Name: "Very Light", Color: "#5895fe"},
		Step{From: 2, To: 3, Name: "Light", Color: "#78e0df"},
		Step{From: 4, To: 6, Name: "Moderate", Color: "#87e740"},
		Step{From: 7, To: 8, Name: "Vigorous", Color: "#f5c545"},
		Step{From: 9, To: 9, Name: "Very Hard", Color: "#e98031"},
		Step{From: 10, To: 10, Name: "Max Effort", Color: "#e35022"},
	)
	return s
}

// Bounds returns the lowest and highest mapped score.
func (s DiscreteScale) Bounds() (lo, hi int) {
	return s.min, s.min + len(s.levels) - 1
}

// Levels returns a copy of every level in ascending order.
func (s DiscreteScale) Levels() []Level {
	out := make([]Level, len(s.levels))
	copy(out, s.levels)
	return out
}

// Lookup rounds v half to even and returns its level. Scores outside the
// scale are rejected.
func (s DiscreteScale) Lookup(v float64) (Level, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Level{}, fmt.Errorf("%w: %v", ErrUnmappedDiscreteValue, v)
	}
	r := int(math.RoundToEven(v))
	idx := r - s.min
	if idx < 0 || idx >= len(s.levels) {
		return Level{}, fmt.Errorf("%w: %d", ErrUnmappedDiscreteValue, r)
	}
	return s.levels[idx], nil
}

// ClassifyDiscrete looks v up in the classifier's discrete scale.
func (c *Classifier) ClassifyDiscrete(v float64) (Level, error) {
	return c.scale.Lookup(v)
}
