package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/askoki/orijent-soccer-analytics/internal/app"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/bands"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/baseline"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

func refreshed() (*service.Service, context.Context) {
	ctx := context.Background()
	svc := service.New(service.WithSource(fixture()))
	So(svc.Refresh(ctx), ShouldBeNil)
	return svc, ctx
}

func panel(as service.AthleteSession, m model.Metric) service.Panel {
	for _, p := range as.Panels {
		if p.Metric == m {
			return p
		}
	}
	return service.Panel{}
}

func series(ts []service.TrendSeries, m model.Metric) service.TrendSeries {
	for _, s := range ts {
		if s.Metric == m {
			return s
		}
	}
	return service.TrendSeries{}
}

func values(ps []model.Point) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}

func TestSessionReport(t *testing.T) {
	Convey("Given a refreshed service", t, func() {
		svc, ctx := refreshed()

		Convey("When reporting a training day", func() {
			rep, err := svc.SessionReport(ctx, day(4))
			So(err, ShouldBeNil)
			So(rep.Date, ShouldEqual, day(4))
			So(rep.Athletes, ShouldHaveLength, 2)
			ana, ivo := rep.Athletes[0], rep.Athletes[1]
			So(ana.AthleteID, ShouldEqual, "ANA")
			So(ana.Panels, ShouldHaveLength, len(model.SessionFeatures()))

			Convey("Then values are judged against personal bests", func() {
				p := panel(ana, model.TotalDistance)
				So(p.Value, ShouldEqual, 6000)
				So(p.Baseline, ShouldEqual, 10000)
				So(p.Tier, ShouldEqual, baseline.Personal)
				So(p.Band, ShouldEqual, bands.Neutral)
				So(p.Color, ShouldEqual, bands.ColorNeutral)
				So(p.Percentage, ShouldEqual, 60)

				p = panel(ivo, model.TotalDistance)
				So(p.Band, ShouldEqual, bands.Low)
				So(p.Color, ShouldEqual, bands.ColorLow)
				So(p.Percentage, ShouldEqual, 33)
			})

			Convey("Then lower-is-better metrics swap colors", func() {
				p := panel(ana, model.MPEAvgRecTime)
				So(p.Band, ShouldEqual, bands.High)
				So(p.Color, ShouldEqual, bands.ColorLow)
			})

			Convey("Then a metric nobody recorded is a panel error, not a failure", func() {
				p := panel(ana, model.MaxSpeed)
				So(p.Error, ShouldContainSubstring, "empty population")
				So(p.Color, ShouldBeEmpty)
			})
		})

		Convey("When no date is given the latest session is used", func() {
			rep, err := svc.SessionReport(ctx, model.Date{})
			So(err, ShouldBeNil)
			So(rep.Date, ShouldEqual, day(6))
			So(rep.Athletes[0].IsMatch, ShouldBeTrue)
		})

		Convey("When the day has no sessions", func() {
			_, err := svc.SessionReport(ctx, day(5))
			So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
		})
	})
}

func TestAthleteTrend(t *testing.T) {
	Convey("Given a refreshed service", t, func() {
		svc, ctx := refreshed()

		Convey("When the default window is used", func() {
			rep, err := svc.AthleteTrend(ctx, "ANA", model.Date{}, model.Date{})
			So(err, ShouldBeNil)

			Convey("Then the series is gap-filled with zeros", func() {
				So(rep.Window, ShouldResemble, service.Window{Start: day(4), End: day(6)})
				s := series(rep.Series, model.TotalDistance)
				So(values(s.Daily), ShouldResemble, []float64{6000, 0, 10000})
				So(s.Weekly, ShouldHaveLength, 1)
				So(s.Weekly[0].Week, ShouldEqual, 10)
				So(s.Weekly[0].Value, ShouldEqual, 16000)
				So(rep.MatchDays, ShouldResemble, []model.Date{day(6)})
			})

			Convey("Then every day is banded against the personal best", func() {
				s := series(rep.Series, model.TotalDistance)
				So(s.Baseline, ShouldEqual, 10000)
				So(s.Labels, ShouldResemble, []int{60, 0, 100})
				So(s.Colors, ShouldResemble, []string{bands.ColorNeutral, bands.ColorLow, bands.ColorHigh})
				So(s.Error, ShouldBeEmpty)
			})

			Convey("Then lower-is-better metrics swap colors", func() {
				s := series(rep.Series, model.MPEAvgRecTime)
				So(s.Labels, ShouldResemble, []int{100, 0, 50})
				So(s.Colors, ShouldResemble, []string{bands.ColorLow, bands.ColorHigh, bands.ColorNeutral})
			})

			Convey("Then metrics nobody recorded carry an error and no colors", func() {
				s := series(rep.Series, model.MaxSpeed)
				So(s.Error, ShouldContainSubstring, "empty population")
				So(s.Colors, ShouldBeNil)
				So(values(s.Daily), ShouldResemble, []float64{0, 0, 0})
			})
		})

		Convey("When the athlete is unknown", func() {
			_, err := svc.AthleteTrend(ctx, "ZED", model.Date{}, model.Date{})
			So(errors.Is(err, service.ErrUnknownAthlete), ShouldBeTrue)
		})

		Convey("When the window is reversed", func() {
			_, err := svc.AthleteTrend(ctx, "ANA", day(6), day(4))
			So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
		})
	})
}

func TestWindowLimit(t *testing.T) {
	Convey("Given a service with the default window cap", t, func() {
		svc, ctx := refreshed()

		Convey("When a window spans centuries", func() {
			_, err := svc.TeamTrend(ctx, model.NewDate(1000, time.January, 1), model.NewDate(2999, time.December, 31))

			Convey("Then it is rejected before any series is built", func() {
				So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "366 day limit")
			})
		})
	})

	Convey("Given a service capped at three days", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSource(fixture()), service.WithMaxWindowDays(3))
		So(svc.Refresh(ctx), ShouldBeNil)

		Convey("Then a three day window is accepted", func() {
			rep, err := svc.TeamTrend(ctx, day(4), day(6))
			So(err, ShouldBeNil)
			So(rep.Sessions, ShouldHaveLength, 3)
		})

		Convey("Then every report rejects a four day window", func() {
			_, err := svc.TeamTrend(ctx, day(4), day(7))
			So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
			_, err = svc.AthleteTrend(ctx, "ANA", day(3), day(6))
			So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
			_, err = svc.RelativeReport(ctx, "", day(4), day(7))
			So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
			_, err = svc.RPETeamReport(ctx, day(1), day(4))
			So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
			_, err = svc.TeamExport(ctx, day(4), day(7))
			So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
		})
	})
}

func TestTeamTrend(t *testing.T) {
	Convey("Given a refreshed service", t, func() {
		svc, ctx := refreshed()

		Convey("When the team trend covers a wider window", func() {
			rep, err := svc.TeamTrend(ctx, day(4), day(7))
			So(err, ShouldBeNil)

			Convey("Then daily team means are zero-filled and summed by week", func() {
				s := series(rep.Series, model.TotalDistance)
				So(values(s.Daily), ShouldResemble, []float64{4500, 0, 9500, 0})
				So(s.Weekly[0].Value, ShouldEqual, 14000)
				So(values(rep.Sessions), ShouldResemble, []float64{2, 0, 2, 0})
				So(rep.MatchDays, ShouldResemble, []model.Date{day(6)})
				So(rep.MatchFlagConflicts, ShouldEqual, 0)
			})
		})
	})
}

func TestRelativeReport(t *testing.T) {
	Convey("Given a refreshed service", t, func() {
		svc, ctx := refreshed()

		Convey("When the team relative report is built", func() {
			rep, err := svc.RelativeReport(ctx, "", day(4), day(6))
			So(err, ShouldBeNil)
			So(rep.TopN, ShouldEqual, 5)
			So(rep.Series, ShouldHaveLength, len(model.RelativeFeatures()))

			Convey("Then daily means are scaled by the top values mean", func() {
				s := rep.Series[0]
				So(s.Metric, ShouldEqual, model.TotalDistance)
				So(s.Reference, ShouldEqual, 7000)
				So(values(s.Daily), ShouldResemble, []float64{0.64, 0, 1.36})
				So(s.Weekly[0].Value, ShouldEqual, 2)
			})

			Convey("Then the distance features are stacked", func() {
				So(rep.RunningLoadError, ShouldBeEmpty)
				So(values(rep.RunningLoad), ShouldResemble, []float64{1.84, 0, 4.16})
				So(rep.RunningLoadWeekly, ShouldHaveLength, 1)
			})

			Convey("Then features without data carry an error", func() {
				for _, s := range rep.Series[3:] {
					So(s.Error, ShouldContainSubstring, "missing reference")
				}
			})
		})

		Convey("When one athlete is selected", func() {
			rep, err := svc.RelativeReport(ctx, "IVO", day(4), day(6))
			So(err, ShouldBeNil)
			So(values(rep.Series[0].Daily), ShouldResemble, []float64{0.43, 0, 1.29})
		})
	})
}

func TestTeamExport(t *testing.T) {
	Convey("Given a refreshed service", t, func() {
		svc, ctx := refreshed()

		Convey("When the team export is requested", func() {
			data, err := svc.TeamExport(ctx, day(4), day(7))
			So(err, ShouldBeNil)
			So(string(data[:4]), ShouldEqual, "PAR1")
		})

		Convey("When the range is reversed", func() {
			_, err := svc.TeamExport(ctx, day(7), day(4))
			So(errors.Is(err, service.ErrInvalidRange), ShouldBeTrue)
		})
	})
}
