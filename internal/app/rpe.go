package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/bands"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/calendar"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/stats"
	"github.com/askoki/orijent-soccer-analytics/pkg/logger"
)

// RPEEntry is one athlete's answer for a session, banded on the discrete
// scale and against the athlete's own earlier answers.
type RPEEntry struct {
	AthleteID string           `json:"athleteId"`
	RPE       int              `json:"rpe"`
	Level     string           `json:"level,omitempty"`
	Color     string           `json:"color,omitempty"`
	History   bands.StatResult `json:"history"`
	Error     string           `json:"error,omitempty"`
}

// RPESessionReport lists every answer of one session date.
type RPESessionReport struct {
	Date    model.Date `json:"date"`
	Mean    float64    `json:"mean"`
	Entries []RPEEntry `json:"entries"`
}

// RPEDay is the team summary of one session date. Gap-filled days have no
// responses and an empty color.
type RPEDay struct {
	Date      model.Date `json:"date"`
	Mean      float64    `json:"mean"`
	Std       float64    `json:"std"`
	Responses int        `json:"responses"`
	Level     string     `json:"level,omitempty"`
	Color     string     `json:"color"`
}

// RPETeamReport summarizes answers per day and per ISO week.
type RPETeamReport struct {
	Window Window            `json:"window"`
	Days   []RPEDay          `json:"days"`
	Weekly []model.WeekPoint `json:"weekly"`
}

// RPESessionReport bands every answer given for date. A zero date selects
// the latest questionnaire date.
func (s *Service) RPESessionReport(ctx context.Context, date model.Date) (rep RPESessionReport, err error) {
	defer s.observe(ctx, reportRPESession, time.Now(), &err)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return RPESessionReport{}, err
	}
	if date.IsZero() {
		dates := ds.RPEDates()
		if len(dates) == 0 {
			return RPESessionReport{}, ErrNoData
		}
		date = dates[len(dates)-1]
	}
	answers := ds.ResponsesOn(date)
	if len(answers) == 0 {
		return RPESessionReport{}, fmt.Errorf("%w: no answers on %s", ErrNoData, date)
	}

	history := make(map[string][]float64)
	for _, r := range ds.Responses() {
		if r.SessionDate.Before(date) {
			history[r.AthleteID] = append(history[r.AthleteID], float64(r.RPE))
		}
	}

	rep = RPESessionReport{Date: date, Entries: make([]RPEEntry, 0, len(answers))}
	values := make([]float64, 0, len(answers))
	for _, a := range answers {
		e := RPEEntry{AthleteID: a.AthleteID, RPE: a.RPE}
		values = append(values, float64(a.RPE))
		if lvl, err := s.classifier.ClassifyDiscrete(float64(a.RPE)); err != nil {
			e.Error = s.panelError(ctx, reportRPESession, err, logger.String("athlete", a.AthleteID))
		} else {
			e.Level, e.Color = lvl.Name, lvl.Color
		}
		e.History = s.classifier.ClassifyHistory(float64(a.RPE), history[a.AthleteID])
		e.History.Mean = stats.Round2(e.History.Mean)
		e.History.Std = stats.Round2(e.History.Std)
		rep.Entries = append(rep.Entries, e)
	}
	sort.SliceStable(rep.Entries, func(i, j int) bool { return rep.Entries[i].AthleteID < rep.Entries[j].AthleteID })
	if m, ok := stats.Mean(values); ok {
		rep.Mean = stats.Round2(m)
	}
	return rep, nil
}

// RPETeamReport returns the mean and sample std of the answers per session
// date over the window, zero-filled, plus weekly means.
func (s *Service) RPETeamReport(ctx context.Context, start, end model.Date) (rep RPETeamReport, err error) {
	defer s.observe(ctx, reportRPETeam, time.Now(), &err)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return RPETeamReport{}, err
	}
	w, err := s.resolveWindow(ds.RPEDates(), start, end)
	if err != nil {
		return RPETeamReport{}, err
	}

	byDay := make(map[model.Date][]float64)
	byWeek := make(map[model.WeekKey][]float64)
	for _, r := range ds.ResponsesBetween(w.Start, w.End) {
		byDay[r.SessionDate] = append(byDay[r.SessionDate], float64(r.RPE))
		y, wk := r.ISOWeek()
		k := model.WeekKey{Year: y, Week: wk}
		byWeek[k] = append(byWeek[k], float64(r.RPE))
	}

	rep = RPETeamReport{Window: w}
	for _, d := range calendar.DateRange(w.Start, w.End) {
		day := RPEDay{Date: d}
		xs := byDay[d]
		if mean, ok := stats.Mean(xs); ok {
			day.Mean = stats.Round2(mean)
			day.Responses = len(xs)
			if std, ok := stats.SampleStd(xs); ok {
				day.Std = stats.Round2(std)
			}
			if lvl, err := s.classifier.ClassifyDiscrete(mean); err == nil {
				day.Level, day.Color = lvl.Name, lvl.Color
			} else {
				s.panelError(ctx, reportRPETeam, err, logger.Stringer("date", d))
			}
		}
		rep.Days = append(rep.Days, day)
	}
	for k, xs := range byWeek {
		mean, _ := stats.Mean(xs)
		rep.Weekly = append(rep.Weekly, model.WeekPoint{WeekKey: k, Value: stats.Round2(mean)})
	}
	sort.Slice(rep.Weekly, func(i, j int) bool { return rep.Weekly[i].WeekKey.Less(rep.Weekly[j].WeekKey) })
	return rep, nil
}
