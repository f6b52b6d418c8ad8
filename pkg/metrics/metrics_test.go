package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"team": "u19"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors carry the options", func() {
				So(manager, ShouldNotBeNil)
				manager.reportsGenerated.WithLabelValues("session").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_sub_reports_generated_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[1].GetName(), ShouldEqual, "team")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then registration panics on duplicates", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		SetEnabled(true)

		Convey("When reports are recorded", func() {
			before := testutil.ToFloat64(globalManager.reportsGenerated.WithLabelValues("team"))
			RecordReport("team", 12)
			RecordPanelError("team", "missing_reference")
			So(testutil.ToFloat64(globalManager.reportsGenerated.WithLabelValues("team")), ShouldEqual, before+1)
			So(testutil.ToFloat64(globalManager.panelErrors.WithLabelValues("team", "missing_reference")), ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("When dataset metrics are recorded", func() {
			RecordRefresh("ok", 40)
			UpdateLastRefresh(1700000000)
			UpdateDatasetRecords("gps", 120)
			RecordDuplicates("rpe", 3)
			RecordDuplicates("rpe", 0)
			RecordMatchFlagConflicts(1)
			So(testutil.ToFloat64(globalManager.datasetRecords.WithLabelValues("gps")), ShouldEqual, 120)
			So(testutil.ToFloat64(globalManager.refreshLastUnix), ShouldEqual, 1700000000)
			So(testutil.ToFloat64(globalManager.datasetDuplicates.WithLabelValues("rpe")), ShouldBeGreaterThanOrEqualTo, 3)
		})

		Convey("When source and HTTP metrics are recorded", func() {
			So(func() {
				RecordSourceFetch("gps", "hit")
				RecordSourceFetchDuration("gps", 3)
				RecordHTTPRequest("/catalog", "GET", "200")
				RecordHTTPRequestDuration("/catalog", "GET", "200", 2)
				RecordErrorByEndpoint("/catalog", "GET", "not_found")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When recording is disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := testutil.ToFloat64(globalManager.datasetRecords.WithLabelValues("disabled"))
			UpdateDatasetRecords("disabled", 99)
			So(testutil.ToFloat64(globalManager.datasetRecords.WithLabelValues("disabled")), ShouldEqual, before)
		})

		Convey("The registry is exposed", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}
