package model

import (
	"fmt"
	"strings"
)

// Metric identifies one numeric GPS column of a session record.
type Metric int

// GPS session metrics. The set is closed; sources map their columns onto it.
const (
	DurationMin Metric = iota
	TotalDistance
	HSRDistance
	SprintDistance
	MaxSpeed
	AvgSpeed
	AccEvents
	DecEvents
	MaxAcc
	MaxDec
	MPECount
	MPEAvgTime
	MPEAvgPower
	MPEAvgRecTime
	MPERecAvgPower
	AvgMetPower
	Energy
	AnEnergy
	AvgHR
	MaxHR
	AvgHRR
	MaxHRR
	SpeedEvents
	Impacts
	Jumps

	NumMetrics
)

var metricNames = [NumMetrics]string{
	DurationMin:    "duration_min",
	TotalDistance:  "total_distance",
	HSRDistance:    "hsr_dist",
	SprintDistance: "sprint_dist",
	MaxSpeed:       "max_speed_km_h",
	AvgSpeed:       "avg_speed_kmh",
	AccEvents:      "acc_events",
	DecEvents:      "dec_events",
	MaxAcc:         "max_acc_ms2",
	MaxDec:         "max_dec_ms2",
	MPECount:       "mpe_count",
	MPEAvgTime:     "mpe_avg_time_s",
	MPEAvgPower:    "mpe_avg_power",
	MPEAvgRecTime:  "mpe_avg_rec_time",
	MPERecAvgPower: "mpe_rec_avg_power_wkg",
	AvgMetPower:    "avg_met_power_wkg",
	Energy:         "energy",
	AnEnergy:       "an_energy",
	AvgHR:          "avg_hr_bmin",
	MaxHR:          "max_hr_bmin",
	AvgHRR:         "avg_hrr_pct",
	MaxHRR:         "max_hrr_pct",
	SpeedEvents:    "speed_events",
	Impacts:        "impacts",
	Jumps:          "jumps",
}

// metricAliases maps export-tool column headers onto metrics.
var metricAliases = map[string]Metric{
	"avg_speed_(kmh)":         AvgSpeed,
	"max_acc_(ms²)":           MaxAcc,
	"max_dec_(ms²)":           MaxDec,
	"mpe_avg_time_(s)":        MPEAvgTime,
	"mpe_rec_avg_power_(wkg)": MPERecAvgPower,
	"avg_met_power_(wkg)":     AvgMetPower,
	"avg_hr_(bmin)":           AvgHR,
	"max_hr_(bmin)":           MaxHR,
	"avg_hrr%_(%)":            AvgHRR,
	"max_hrr%_(%)":            MaxHRR,
	"tot_dist":                TotalDistance,
	"mpe":                     MPECount,
	"acc_num":                 AccEvents,
	"dec_num":                 DecEvents,
}

func (m Metric) String() string {
	if m < 0 || m >= NumMetrics {
		return "unknown"
	}
	return metricNames[m]
}

// Valid reports whether m is one of the declared metrics.
func (m Metric) Valid() bool { return m >= 0 && m < NumMetrics }

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts a canonical name or alias.
func (m *Metric) UnmarshalText(b []byte) error {
	v, ok := ParseMetric(string(b))
	if !ok {
		return fmt.Errorf("unknown metric %q", b)
	}
	*m = v
	return nil
}

// ParseMetric resolves a canonical name or a known column alias.
func ParseMetric(name string) (Metric, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range metricNames {
		if n == key {
			return Metric(i), true
		}
	}
	m, ok := metricAliases[key]
	return m, ok
}

// AllMetrics lists every metric in declaration order.
func AllMetrics() []Metric {
	out := make([]Metric, NumMetrics)
	for i := range out {
		out[i] = Metric(i)
	}
	return out
}

// SessionFeatures are compared against baselines in the single-session report.
func SessionFeatures() []Metric {
	return []Metric{TotalDistance, HSRDistance, SprintDistance, MaxSpeed, MPECount, AccEvents, DecEvents, MPEAvgRecTime}
}

// InverseFeatures are metrics where a lower value is the better outcome.
func InverseFeatures() []Metric {
	return []Metric{MPEAvgRecTime}
}

// RelativeFeatures are scaled against the game-level reference.
// The first three make up the stacked running load.
func RelativeFeatures() []Metric {
	return []Metric{TotalDistance, HSRDistance, SprintDistance, AccEvents, DecEvents, MPECount}
}

// TrendFeatures are plotted as absolute values per athlete and for the team.
func TrendFeatures() []Metric {
	return []Metric{HSRDistance, SprintDistance, MPECount, MaxSpeed, MPEAvgPower, MPEAvgRecTime, TotalDistance, DurationMin}
}
