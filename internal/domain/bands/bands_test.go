package bands_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/bands"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

func TestClassify(t *testing.T) {
	Convey("Given the default classifier", t, func() {
		c := bands.NewClassifier()

		Convey("Values around the thresholds", func() {
			cases := []struct {
				value float64
				band  bands.Band
				color string
			}{
				{39.99, bands.Low, bands.ColorLow},
				{40, bands.Neutral, bands.ColorNeutral},
				{60, bands.Neutral, bands.ColorNeutral},
				{80, bands.Neutral, bands.ColorNeutral},
				{80.01, bands.High, bands.ColorHigh},
				{150, bands.High, bands.ColorHigh},
			}
			for _, tc := range cases {
				r, err := c.Classify(tc.value, 100, false)
				So(err, ShouldBeNil)
				So(r.Band, ShouldEqual, tc.band)
				So(r.Color, ShouldEqual, tc.color)
			}
		})

		Convey("Exact percentages of 40 and 80 from a ratio are neutral", func() {
			r, _ := c.Classify(2, 5, false)
			So(r.Percentage, ShouldEqual, 40)
			So(r.Band, ShouldEqual, bands.Neutral)
			r, _ = c.Classify(4, 5, false)
			So(r.Percentage, ShouldEqual, 80)
			So(r.Band, ShouldEqual, bands.Neutral)
		})

		Convey("Inverse swaps colors, not thresholds", func() {
			low, _ := c.Classify(10, 100, true)
			So(low.Band, ShouldEqual, bands.Low)
			So(low.Color, ShouldEqual, bands.ColorHigh)

			high, _ := c.Classify(90, 100, true)
			So(high.Band, ShouldEqual, bands.High)
			So(high.Color, ShouldEqual, bands.ColorLow)

			mid, _ := c.Classify(40, 100, true)
			So(mid.Color, ShouldEqual, bands.ColorNeutral)
		})

		Convey("The recovery-time metric is inverse by default", func() {
			So(c.IsInverse(model.MPEAvgRecTime), ShouldBeTrue)
			So(c.IsInverse(model.TotalDistance), ShouldBeFalse)
			r, _ := c.ClassifyMetric(model.MPEAvgRecTime, 95, 100)
			So(r.Color, ShouldEqual, bands.ColorLow)
		})

		Convey("Labels are truncated percentages", func() {
			r, _ := c.Classify(79.99, 100, false)
			So(r.Label, ShouldEqual, 79)
			So(r.Band, ShouldEqual, bands.Neutral)
		})

		Convey("A zero or undefined reference is reported", func() {
			for _, ref := range []float64{0, -3, math.NaN(), math.Inf(1)} {
				_, err := c.Classify(10, ref, false)
				So(errors.Is(err, bands.ErrMissingReference), ShouldBeTrue)
				So(errors.Is(err, model.ErrMissingReference), ShouldBeTrue)
			}
		})

		Convey("A missing value counts as zero", func() {
			r, err := c.Classify(math.NaN(), 100, false)
			So(err, ShouldBeNil)
			So(r.Band, ShouldEqual, bands.Low)
		})

		Convey("Series classification returns parallel arrays", func() {
			colors, labels, err := c.ClassifySeries(model.HSRDistance, []float64{10, 50, 90}, 100)
			So(err, ShouldBeNil)
			So(colors, ShouldResemble, []string{bands.ColorLow, bands.ColorNeutral, bands.ColorHigh})
			So(labels, ShouldResemble, []int{10, 50, 90})

			_, _, err = c.ClassifySeries(model.HSRDistance, []float64{1}, 0)
			So(errors.Is(err, bands.ErrMissingReference), ShouldBeTrue)
		})
	})

	Convey("Given custom options", t, func() {
		c := bands.NewClassifier(bands.WithThresholds(50, 70), bands.WithInverseMetrics(model.MaxHR))
		low, high := c.Thresholds()
		So(low, ShouldEqual, 50)
		So(high, ShouldEqual, 70)
		So(c.IsInverse(model.MaxHR), ShouldBeTrue)
		So(c.IsInverse(model.MPEAvgRecTime), ShouldBeFalse)

		Convey("Invalid thresholds are ignored", func() {
			c := bands.NewClassifier(bands.WithThresholds(90, 10))
			low, high := c.Thresholds()
			So(low, ShouldEqual, bands.DefaultLowThreshold)
			So(high, ShouldEqual, bands.DefaultHighThreshold)
		})
	})
}

func TestClassifyDiscrete(t *testing.T) {
	Convey("Given the RPE scale", t, func() {
		c := bands.NewClassifier()

		Convey("Every score from 1 to 10 is mapped", func() {
			want := map[int]string{
				1: "Very Light", 2: "Light", 3: "Light", 4: "Moderate", 5: "Moderate",
				6: "Moderate", 7: "Vigorous", 8: "Vigorous", 9: "Very Hard", 10: "Max Effort",
			}
			for v, name := range want {
				lvl, err := c.ClassifyDiscrete(float64(v))
				So(err, ShouldBeNil)
				So(lvl.Name, ShouldEqual, name)
				So(lvl.Value, ShouldEqual, v)
			}
		})

		Convey("5 is moderate and 10 is max effort", func() {
			lvl, _ := c.ClassifyDiscrete(5)
			So(lvl.Color, ShouldEqual, "#87e740")
			lvl, _ = c.ClassifyDiscrete(10)
			So(lvl.Color, ShouldEqual, "#e35022")
		})

		Convey("Fractional scores round half to even", func() {
			lvl, _ := c.ClassifyDiscrete(6.5)
			So(lvl.Value, ShouldEqual, 6)
			lvl, _ = c.ClassifyDiscrete(7.5)
			So(lvl.Value, ShouldEqual, 8)
			lvl, _ = c.ClassifyDiscrete(0.6)
			So(lvl.Value, ShouldEqual, 1)
		})

		Convey("Scores outside the scale are rejected", func() {
			for _, v := range []float64{0, 0.5, 10.6, 11, -1, math.NaN()} {
				_, err := c.ClassifyDiscrete(v)
				So(errors.Is(err, bands.ErrUnmappedDiscreteValue), ShouldBeTrue)
			}
		})

		Convey("Bounds and levels describe the table", func() {
			lo, hi := c.Scale().Bounds()
			So(lo, ShouldEqual, 1)
			So(hi, ShouldEqual, 10)
			So(c.Scale().Levels(), ShouldHaveLength, 10)
		})
	})

	Convey("Given malformed scale steps", t, func() {
		_, err := bands.NewDiscreteScale(bands.Step{From: 1, To: 2}, bands.Step{From: 4, To: 5})
		So(errors.Is(err, bands.ErrInvalidScale), ShouldBeTrue)
		_, err = bands.NewDiscreteScale()
		So(errors.Is(err, bands.ErrInvalidScale), ShouldBeTrue)
	})
}

func TestClassifyStatistical(t *testing.T) {
	Convey("Given a mean of 5 and std of 1", t, func() {
		c := bands.NewClassifier()
		b, color := c.ClassifyStatistical(5.5, 5, 1)
		So(b, ShouldEqual, bands.Normal)
		So(color, ShouldEqual, bands.ColorNormal)

		b, _ = c.ClassifyStatistical(6, 5, 1)
		So(b, ShouldEqual, bands.Normal)

		b, color = c.ClassifyStatistical(3.5, 5, 1)
		So(b, ShouldEqual, bands.Warning)
		So(color, ShouldEqual, bands.ColorWarning)

		b, color = c.ClassifyStatistical(8, 5, 1)
		So(b, ShouldEqual, bands.Danger)
		So(color, ShouldEqual, bands.ColorDanger)

		b, _ = c.ClassifyStatistical(8, 5, math.NaN())
		So(b, ShouldEqual, bands.Normal)
	})

	Convey("Given a history", t, func() {
		c := bands.NewClassifier()

		Convey("Fewer than two observations is normal", func() {
			r := c.ClassifyHistory(10, []float64{2})
			So(r.Band, ShouldEqual, bands.Normal)
			So(r.Observations, ShouldEqual, 1)
			So(r.Mean, ShouldEqual, 2)

			r = c.ClassifyHistory(10, nil)
			So(r.Band, ShouldEqual, bands.Normal)
			So(r.Observations, ShouldEqual, 0)
		})

		Convey("A far value is danger", func() {
			r := c.ClassifyHistory(10, []float64{4, 6, 5, 5})
			So(r.Band, ShouldEqual, bands.Danger)
			So(r.Mean, ShouldEqual, 5)
			So(r.Observations, ShouldEqual, 4)
		})

		Convey("A flat history flags any change", func() {
			r := c.ClassifyHistory(6, []float64{5, 5, 5})
			So(r.Std, ShouldEqual, 0)
			So(r.Band, ShouldEqual, bands.Danger)
			r = c.ClassifyHistory(5, []float64{5, 5, 5})
			So(r.Band, ShouldEqual, bands.Normal)
		})
	})
}
