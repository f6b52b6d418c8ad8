package service

import (
	"context"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/adapters/export"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/calendar"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// TeamExport encodes the team trend of the window as Parquet, one row per day.
func (s *Service) TeamExport(ctx context.Context, start, end model.Date) (data []byte, err error) {
	defer s.observe(ctx, reportTeamExport, time.Now(), &err)

	ds, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	w, err := s.resolveWindow(ds.SessionDates(), start, end)
	if err != nil {
		return nil, err
	}
	return export.TeamParquet(teamRows(s.teamTrend(ctx, ds, w)))
}

func teamRows(t TeamTrend) []export.TeamRow {
	match := make(map[model.Date]bool, len(t.MatchDays))
	for _, d := range t.MatchDays {
		match[d] = true
	}
	rows := make([]export.TeamRow, len(t.Sessions))
	for i, p := range t.Sessions {
		y, w := calendar.ISOWeekOf(p.Date)
		rows[i] = export.TeamRow{
			Date:     p.Date.String(),
			ISOYear:  int32(y),
			ISOWeek:  int32(w),
			Sessions: int32(p.Value),
			IsMatch:  match[p.Date],
		}
	}
	for _, ts := range t.Series {
		for i, p := range ts.Daily {
			if i < len(rows) {
				setColumn(&rows[i], ts.Metric, p.Value)
			}
		}
	}
	return rows
}

func setColumn(r *export.TeamRow, m model.Metric, v float64) {
	switch m {
	case model.DurationMin:
		r.DurationMin = v
	case model.TotalDistance:
		r.TotalDistance = v
	case model.HSRDistance:
		r.HSRDistance = v
	case model.SprintDistance:
		r.SprintDistance = v
	case model.MaxSpeed:
		r.MaxSpeed = v
	case model.AvgSpeed:
		r.AvgSpeed = v
	case model.AccEvents:
		r.AccEvents = v
	case model.DecEvents:
		r.DecEvents = v
	case model.MaxAcc:
		r.MaxAcc = v
	case model.MaxDec:
		r.MaxDec = v
	case model.MPECount:
		r.MPECount = v
	case model.MPEAvgTime:
		r.MPEAvgTime = v
	case model.MPEAvgPower:
		r.MPEAvgPower = v
	case model.MPEAvgRecTime:
		r.MPEAvgRecTime = v
	case model.Energy:
		r.Energy = v
	case model.AnEnergy:
		r.AnEnergy = v
	}
}
