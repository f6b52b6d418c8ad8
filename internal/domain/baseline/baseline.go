// Package baseline resolves the reference maximum a session value is
// judged against.
package baseline

import (
	"fmt"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/stats"
)

// Tier names the population a baseline was taken from.
type Tier int

const (
	// Personal is the athlete's own best.
	Personal Tier = iota
	// MatchPopulation is the best of all match records.
	MatchPopulation
	// Population is the best of all records.
	Population
)

func (t Tier) String() string {
	switch t {
	case Personal:
		return "personal"
	case MatchPopulation:
		return "match"
	case Population:
		return "population"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	for _, v := range []Tier{Personal, MatchPopulation, Population} {
		if v.String() == string(b) {
			*t = v
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", b)
}

// Baseline is a resolved reference value.
type Baseline struct {
	Value float64 `json:"value"`
	Tier  Tier    `json:"tier"`
}

// For returns the baseline of metric for athlete: the athlete's max, else
// the max over match records, else the max over every record. A tier with
// no present values or a zero max falls through to the next one. When the
// whole population is zero the result is 0 from the Population tier.
func For(athlete string, metric model.Metric, population []model.SessionRecord) (Baseline, error) {
	var personal, match, all []float64
	for _, r := range population {
		v := r.Value(metric)
		all = append(all, v)
		if r.IsMatch {
			match = append(match, v)
		}
		if r.AthleteID == athlete {
			personal = append(personal, v)
		}
	}
	if v, ok := usable(personal); ok {
		return Baseline{Value: v, Tier: Personal}, nil
	}
	if v, ok := usable(match); ok {
		return Baseline{Value: v, Tier: MatchPopulation}, nil
	}
	v, ok := stats.Max(all)
	if !ok {
		return Baseline{Tier: Population}, fmt.Errorf("%w: %s", ErrEmptyPopulation, metric)
	}
	return Baseline{Value: v, Tier: Population}, nil
}

func usable(xs []float64) (float64, bool) {
	v, ok := stats.Max(xs)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// Extractor precomputes baselines for repeated lookups over one population.
type Extractor struct {
	population []model.SessionRecord
	cache      map[key]result
}

type key struct {
	athlete string
	metric  model.Metric
}

type result struct {
	b   Baseline
	err error
}

// NewExtractor returns an Extractor over population. The slice must not be
// mutated while the Extractor is in use.
func NewExtractor(population []model.SessionRecord) *Extractor {
	return &Extractor{population: population, cache: make(map[key]result)}
}

// For memoizes the package-level For. Not safe for concurrent use.
func (e *Extractor) For(athlete string, metric model.Metric) (Baseline, error) {
	k := key{athlete: athlete, metric: metric}
	if r, ok := e.cache[k]; ok {
		return r.b, r.err
	}
	b, err := For(athlete, metric, e.population)
	e.cache[k] = result{b: b, err: err}
	return b, err
}
