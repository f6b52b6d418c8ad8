package model_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

func TestDate(t *testing.T) {
	Convey("Given civil dates", t, func() {
		Convey("When parsing a valid date", func() {
			d, err := model.ParseDate("2024-02-28")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, model.Date{Year: 2024, Month: time.February, Day: 28})

			Convey("Then adding days crosses the leap day", func() {
				So(d.AddDays(1).String(), ShouldEqual, "2024-02-29")
				So(d.AddDays(2).String(), ShouldEqual, "2024-03-01")
				So(d.AddDays(-28).String(), ShouldEqual, "2024-01-31")
			})
		})

		Convey("When parsing garbage", func() {
			_, err := model.ParseDate("28/02/2024")
			So(err, ShouldNotBeNil)
		})

		Convey("When truncating a timestamp", func() {
			loc := time.FixedZone("CET", 3600)
			ts := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)
			So(model.DateOf(ts).String(), ShouldEqual, "2024-03-10")
		})

		Convey("When comparing and windowing", func() {
			a := model.NewDate(2024, time.January, 1)
			b := model.NewDate(2024, time.January, 5)
			So(a.Before(b), ShouldBeTrue)
			So(b.After(a), ShouldBeTrue)
			So(a.Before(a), ShouldBeFalse)
			So(a.Within(a, b), ShouldBeTrue)
			So(b.Within(a, b), ShouldBeTrue)
			So(b.AddDays(1).Within(a, b), ShouldBeFalse)
		})

		Convey("When round-tripping through JSON", func() {
			in := struct {
				D model.Date `json:"d"`
			}{D: model.NewDate(2023, time.December, 31)}
			raw, err := json.Marshal(in)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"d":"2023-12-31"}`)

			var out struct {
				D model.Date `json:"d"`
			}
			So(json.Unmarshal(raw, &out), ShouldBeNil)
			So(out.D, ShouldResemble, in.D)
		})
	})
}

func TestMetric(t *testing.T) {
	Convey("Given the metric enumeration", t, func() {
		Convey("Canonical names resolve", func() {
			for _, m := range model.AllMetrics() {
				got, ok := model.ParseMetric(m.String())
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, m)
			}
		})

		Convey("Source column aliases resolve", func() {
			m, ok := model.ParseMetric("Avg_Speed_(kmh)")
			So(ok, ShouldBeTrue)
			So(m, ShouldEqual, model.AvgSpeed)

			m, ok = model.ParseMetric("max_hrr%_(%)")
			So(ok, ShouldBeTrue)
			So(m, ShouldEqual, model.MaxHRR)
		})

		Convey("Unknown names do not resolve", func() {
			_, ok := model.ParseMetric("heart_rate_variability")
			So(ok, ShouldBeFalse)
			So(model.Metric(-1).String(), ShouldEqual, "unknown")
		})

		Convey("The stacked relative features come first", func() {
			rel := model.RelativeFeatures()
			So(rel[:3], ShouldResemble, []model.Metric{model.TotalDistance, model.HSRDistance, model.SprintDistance})
		})

		Convey("Metrics decode from JSON names", func() {
			var got struct {
				Metric model.Metric `json:"metric"`
			}
			So(json.Unmarshal([]byte(`{"metric":"hsr_dist"}`), &got), ShouldBeNil)
			So(got.Metric, ShouldEqual, model.HSRDistance)
			So(json.Unmarshal([]byte(`{"metric":"vo2"}`), &got), ShouldNotBeNil)
		})
	})
}

func TestSessionRecord(t *testing.T) {
	Convey("Given a fresh session record", t, func() {
		ts := time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)
		r := model.NewSessionRecord("IVAN", ts, true)

		Convey("Then every metric starts missing", func() {
			for _, m := range model.AllMetrics() {
				So(math.IsNaN(r.Value(m)), ShouldBeTrue)
			}
		})

		Convey("When a metric is set", func() {
			r.Set(model.HSRDistance, 512.5)
			r.Set(model.Metric(99), 1)
			So(r.Value(model.HSRDistance), ShouldEqual, 512.5)
			So(math.IsNaN(r.Value(model.Metric(99))), ShouldBeTrue)
			So(r.Date().String(), ShouldEqual, "2024-05-04")
		})
	})

	Convey("Given an RPE response at the turn of the year", t, func() {
		resp := model.RpeResponse{SessionDate: model.NewDate(2024, time.December, 30)}
		y, w := resp.ISOWeek()
		So(y, ShouldEqual, 2025)
		So(w, ShouldEqual, 1)
	})
}

func TestValidReference(t *testing.T) {
	Convey("Only finite positive references divide", t, func() {
		So(model.ValidReference(0.5), ShouldBeTrue)
		for _, ref := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
			So(model.ValidReference(ref), ShouldBeFalse)
		}
	})
}
