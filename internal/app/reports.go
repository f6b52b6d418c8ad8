package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/adapters/repository"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/aggregate"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/bands"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/baseline"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/calendar"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/relative"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/stats"
	"github.com/askoki/orijent-soccer-analytics/pkg/logger"
	"github.com/askoki/orijent-soccer-analytics/pkg/metrics"
)

// Report names used in metrics and logs.
const (
	reportSession     = "session"
	reportAthlete     = "athlete"
	reportTeam        = "team"
	reportRelative    = "relative"
	reportRPESession  = "rpe_session"
	reportRPETeam     = "rpe_team"
	reportTeamExport  = "team_export"
	panelErrorUnknown = "other"
)

// Panel is one metric of one athlete judged against its baseline.
// Error is set instead of the band fields when the panel cannot be drawn.
type Panel struct {
	Metric     model.Metric  `json:"metric"`
	Value      float64       `json:"value"`
	Baseline   float64       `json:"baseline"`
	Tier       baseline.Tier `json:"tier"`
	Band       bands.Band    `json:"band,omitempty"`
	Color      string        `json:"color,omitempty"`
	Percentage int           `json:"percentage"`
	Error      string        `json:"error,omitempty"`
}

// AthleteSession holds the panels of one athlete on one day.
type AthleteSession struct {
	AthleteID string  `json:"athleteId"`
	IsMatch   bool    `json:"isMatch"`
	Records   int     `json:"records"`
	Panels    []Panel `json:"panels"`
}

// SessionReport compares every athlete of one session day to their best.
type SessionReport struct {
	Date     model.Date       `json:"date"`
	Athletes []AthleteSession `json:"athletes"`
}

// TrendSeries is one metric as a gap-filled daily series plus its ISO
// weekly sums. Athlete trends also band every day against the athlete's
// baseline; Colors and Labels run parallel to Daily.
type TrendSeries struct {
	Metric   model.Metric      `json:"metric"`
	Daily    []model.Point     `json:"daily"`
	Weekly   []model.WeekPoint `json:"weekly"`
	Baseline float64           `json:"baseline,omitempty"`
	Colors   []string          `json:"colors,omitempty"`
	Labels   []int             `json:"labels,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// AthleteTrend is the absolute trend of one athlete over a window.
type AthleteTrend struct {
	AthleteID string        `json:"athleteId"`
	Window    Window        `json:"window"`
	MatchDays []model.Date  `json:"matchDays"`
	Series    []TrendSeries `json:"series"`
}

// TeamTrend is the team mean per day over a window.
type TeamTrend struct {
	Window Window `json:"window"`
	// Sessions is the number of session rows merged into each day.
	Sessions           []model.Point `json:"sessions"`
	MatchDays          []model.Date  `json:"matchDays"`
	MatchFlagConflicts int           `json:"matchFlagConflicts"`
	Series             []TrendSeries `json:"series"`
}

// RelativeSeries is one metric scaled by its game-level reference.
type RelativeSeries struct {
	Metric    model.Metric      `json:"metric"`
	Reference float64           `json:"reference"`
	Daily     []model.Point     `json:"daily,omitempty"`
	Weekly    []model.WeekPoint `json:"weekly,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// RelativeReport scales daily means of the team, or of one athlete, by the
// mean of the population's top values.
type RelativeReport struct {
	AthleteID         string            `json:"athleteId,omitempty"`
	Window            Window            `json:"window"`
	TopN              int               `json:"topN"`
	Series            []RelativeSeries  `json:"series"`
	RunningLoad       []model.Point     `json:"runningLoad,omitempty"`
	RunningLoadWeekly []model.WeekPoint `json:"runningLoadWeekly,omitempty"`
	RunningLoadError  string            `json:"runningLoadError,omitempty"`
}

// SessionReport bands each athlete's day means of the session features
// against the three-tier baseline. A zero date selects the latest session.
func (s *Service) SessionReport(ctx context.Context, date model.Date) (rep SessionReport, err error) {
	defer s.observe(ctx, reportSession, time.Now(), &err)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return SessionReport{}, err
	}
	if date.IsZero() {
		dates := ds.SessionDates()
		if len(dates) == 0 {
			return SessionReport{}, ErrNoData
		}
		date = dates[len(dates)-1]
	}
	day := ds.SessionsOn(date)
	if len(day) == 0 {
		return SessionReport{}, fmt.Errorf("%w: no sessions on %s", ErrNoData, date)
	}

	features := model.SessionFeatures()
	table := aggregate.ByAthleteDate(day, aggregate.MeanPlan(features...))
	ext := baseline.NewExtractor(ds.Sessions())

	rep = SessionReport{Date: date, Athletes: make([]AthleteSession, 0, len(table.Rows))}
	for _, row := range table.Rows {
		as := AthleteSession{AthleteID: row.AthleteID, IsMatch: row.IsMatch, Records: row.Records}
		for _, m := range features {
			p := Panel{Metric: m, Value: row.Value(m)}
			b, err := ext.For(row.AthleteID, m)
			p.Baseline, p.Tier = b.Value, b.Tier
			if err == nil {
				var res bands.Result
				res, err = s.classifier.ClassifyMetric(m, p.Value, b.Value)
				p.Band, p.Color, p.Percentage = res.Band, res.Color, res.Label
			}
			if err != nil {
				p.Error = s.panelError(ctx, reportSession, err,
					logger.String("athlete", row.AthleteID), logger.Stringer("metric", m))
			}
			as.Panels = append(as.Panels, p)
		}
		rep.Athletes = append(rep.Athletes, as)
	}
	return rep, nil
}

// AthleteTrend returns the daily means of the trend features of one athlete.
func (s *Service) AthleteTrend(ctx context.Context, athlete string, start, end model.Date) (rep AthleteTrend, err error) {
	defer s.observe(ctx, reportAthlete, time.Now(), &err)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return AthleteTrend{}, err
	}
	if !ds.HasAthlete(athlete) {
		return AthleteTrend{}, fmt.Errorf("%w: %q", ErrUnknownAthlete, athlete)
	}
	w, err := s.resolveWindow(ds.SessionDates(), start, end)
	if err != nil {
		return AthleteTrend{}, err
	}
	recs, err := ds.AthleteSessions(athlete)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return AthleteTrend{}, err
	}
	recs = within(recs, w)

	features := model.TrendFeatures()
	table := aggregate.ByAthleteDate(recs, aggregate.MeanPlan(features...))
	ext := baseline.NewExtractor(ds.Sessions())
	rep = AthleteTrend{AthleteID: athlete, Window: w, MatchDays: matchDays(table)}
	for _, m := range features {
		ts := trend(table.Series(m, athlete), w)
		b, err := ext.For(athlete, m)
		if err == nil {
			ts.Baseline = b.Value
			daily := model.MetricSeries{Metric: m, Points: ts.Daily}
			ts.Colors, ts.Labels, err = s.classifier.ClassifySeries(m, daily.Values(), b.Value)
		}
		if err != nil {
			ts.Error = s.panelError(ctx, reportAthlete, err,
				logger.String("athlete", athlete), logger.Stringer("metric", m))
		}
		rep.Series = append(rep.Series, ts)
	}
	return rep, nil
}

// TeamTrend reduces every session of the window with the team plan.
func (s *Service) TeamTrend(ctx context.Context, start, end model.Date) (rep TeamTrend, err error) {
	defer s.observe(ctx, reportTeam, time.Now(), &err)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return TeamTrend{}, err
	}
	w, err := s.resolveWindow(ds.SessionDates(), start, end)
	if err != nil {
		return TeamTrend{}, err
	}
	return s.teamTrend(ctx, ds, w), nil
}

func (s *Service) teamTrend(ctx context.Context, ds *repository.Dataset, w Window) TeamTrend {
	plan := aggregate.TeamPlan()
	table := aggregate.ByDate(ds.SessionsBetween(w.Start, w.End), plan)
	if table.Disagreements > 0 {
		metrics.RecordMatchFlagConflicts(table.Disagreements)
		s.log().Warn(ctx, "session days disagree on match flag",
			logger.Int("days", table.Disagreements))
	}

	counts := model.MetricSeries{Points: table.RecordCounts()}
	rep := TeamTrend{
		Window:             w,
		Sessions:           calendar.FillCalendarGaps(counts, w.Start, w.End, 0).Points,
		MatchDays:          matchDays(table),
		MatchFlagConflicts: table.Disagreements,
	}
	for _, m := range planMetrics(plan) {
		rep.Series = append(rep.Series, trend(table.Series(m, ""), w))
	}
	return rep
}

// RelativeReport scales the daily means of the relative features, of the
// team or of one athlete when athlete is set, by the top-N reference of
// the whole population. Weekly values are weekly sums of daily means.
func (s *Service) RelativeReport(ctx context.Context, athlete string, start, end model.Date) (rep RelativeReport, err error) {
	defer s.observe(ctx, reportRelative, time.Now(), &err)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return RelativeReport{}, err
	}
	if athlete != "" && !ds.HasAthlete(athlete) {
		return RelativeReport{}, fmt.Errorf("%w: %q", ErrUnknownAthlete, athlete)
	}
	w, err := s.resolveWindow(ds.SessionDates(), start, end)
	if err != nil {
		return RelativeReport{}, err
	}

	features := model.RelativeFeatures()
	recs := ds.SessionsBetween(w.Start, w.End)
	var table aggregate.Table
	if athlete == "" {
		table = aggregate.ByDate(recs, aggregate.MeanPlan(features...))
	} else {
		table = aggregate.ByAthleteDate(recs, aggregate.MeanPlan(features...))
	}

	rep = RelativeReport{AthleteID: athlete, Window: w, TopN: s.topN}
	var (
		daily   []model.MetricSeries
		weekly  [][]model.WeekPoint
		stackOK = true
	)
	for i, m := range features {
		rs := RelativeSeries{Metric: m}
		ref, err := relative.ReferenceFor(m, ds.Sessions(), s.topN)
		if err == nil {
			rs.Reference = ref
			means := roundSeries(table.Series(m, athlete))
			filled := calendar.FillCalendarGaps(means, w.Start, w.End, 0)
			var scaled model.MetricSeries
			scaled, err = relative.ScaleSeries(filled, ref)
			if err == nil {
				rs.Daily = scaled.Points
				rs.Weekly, err = relative.ScaleWeeks(aggregate.Weekly(filled), ref)
			}
			if i < runningLoadParts && err == nil {
				daily = append(daily, scaled)
				weekly = append(weekly, rs.Weekly)
			}
		}
		if err != nil {
			rs.Error = s.panelError(ctx, reportRelative, err, logger.Stringer("metric", m))
			if i < runningLoadParts {
				stackOK = false
			}
		}
		rep.Series = append(rep.Series, rs)
	}
	if stackOK {
		rep.RunningLoad = relative.Stack(daily...).Points
		rep.RunningLoadWeekly = stackWeeks(weekly)
	} else {
		rep.RunningLoadError = "running load needs every distance reference"
	}
	return rep, nil
}

// runningLoadParts is how many leading relative features are stacked.
const runningLoadParts = 3

func trend(daily model.MetricSeries, w Window) TrendSeries {
	filled := calendar.FillCalendarGaps(daily, w.Start, w.End, 0)
	return TrendSeries{Metric: daily.Metric, Daily: filled.Points, Weekly: aggregate.Weekly(filled)}
}

func within(recs []model.SessionRecord, w Window) []model.SessionRecord {
	out := recs[:0:0]
	for _, r := range recs {
		if r.Date().Within(w.Start, w.End) {
			out = append(out, r)
		}
	}
	return out
}

func matchDays(t aggregate.Table) []model.Date {
	days := make([]model.Date, 0)
	for d := range t.MatchDays() {
		days = append(days, d)
	}
	return calendar.SortedUnique(days)
}

func planMetrics(p aggregate.Plan) []model.Metric {
	out := make([]model.Metric, 0, len(p))
	for m := range p {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func roundSeries(s model.MetricSeries) model.MetricSeries {
	out := model.MetricSeries{Metric: s.Metric, Points: make([]model.Point, len(s.Points))}
	for i, p := range s.Points {
		out.Points[i] = model.Point{Date: p.Date, Value: stats.Round2(p.Value)}
	}
	return out
}

func stackWeeks(parts [][]model.WeekPoint) []model.WeekPoint {
	if len(parts) == 0 {
		return nil
	}
	out := make([]model.WeekPoint, len(parts[0]))
	copy(out, parts[0])
	for _, p := range parts[1:] {
		for i := range out {
			if i < len(p) {
				out[i].Value += p[i].Value
			}
		}
	}
	for i := range out {
		out[i].Value = stats.Round2(out[i].Value)
	}
	return out
}

// observe records report latency and outcome.
func (s *Service) observe(ctx context.Context, report string, start time.Time, err *error) {
	elapsed := time.Since(start)
	if *err != nil {
		s.log().Debug(ctx, "report failed", logger.String("report", report), logger.Error(*err))
		return
	}
	metrics.RecordReport(report, float64(elapsed.Milliseconds()))
}

// panelError counts and logs a failed panel and returns its message.
func (s *Service) panelError(ctx context.Context, report string, err error, fields ...logger.Field) string {
	kind := errorKind(err)
	metrics.RecordPanelError(report, kind)
	s.log().Debug(ctx, "panel skipped", append(fields, logger.String("report", report), logger.Error(err))...)
	return err.Error()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrMissingReference):
		return "missing_reference"
	case errors.Is(err, baseline.ErrEmptyPopulation):
		return "empty_population"
	case errors.Is(err, bands.ErrUnmappedDiscreteValue):
		return "unmapped_discrete_value"
	}
	return panelErrorUnknown
}
