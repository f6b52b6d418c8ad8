package source_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/askoki/orijent-soccer-analytics/internal/adapters/source"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

const gpsCSV = `date_time,athlete,duration_min,total_distance,hsr_dist,avg_speed_(kmh),max_acc_(ms²),is_match,notes
2024-03-04 10:00:00,Ivan Petrov,90,10500.5,820,6.9,3.1,True,ok
2024-03-05 10:00:00,Иван Петров,60,,410,nan,2.4,False,
,,,,,,,,
`

func TestParseSessions(t *testing.T) {
	Convey("Given a GPS export", t, func() {
		recs, err := source.ParseSessionsCSV(strings.NewReader(gpsCSV))
		So(err, ShouldBeNil)
		So(recs, ShouldHaveLength, 2)

		Convey("Then fields are mapped onto the fixed schema", func() {
			r := recs[0]
			So(r.AthleteID, ShouldEqual, "Ivan Petrov")
			So(r.Timestamp, ShouldEqual, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC))
			So(r.IsMatch, ShouldBeTrue)
			So(r.Value(model.TotalDistance), ShouldEqual, 10500.5)
			So(r.Value(model.AvgSpeed), ShouldEqual, 6.9)
			So(r.Value(model.MaxAcc), ShouldEqual, 3.1)
			So(math.IsNaN(r.Value(model.SprintDistance)), ShouldBeTrue)
		})

		Convey("Then empty cells are missing values", func() {
			So(math.IsNaN(recs[1].Value(model.TotalDistance)), ShouldBeTrue)
			So(math.IsNaN(recs[1].Value(model.AvgSpeed)), ShouldBeTrue)
			So(recs[1].IsMatch, ShouldBeFalse)
		})
	})

	Convey("Given exports with problems", t, func() {
		_, err := source.ParseSessionRows(nil)
		So(errors.Is(err, source.ErrEmptyTable), ShouldBeTrue)

		_, err = source.ParseSessionRows([][]string{{"athlete", "total_distance"}})
		So(errors.Is(err, source.ErrMissingColumn), ShouldBeTrue)

		_, err = source.ParseSessionRows([][]string{{"date_time", "athlete", "hsr_dist"}, {"2024-01-01", "A", "lots"}})
		So(errors.Is(err, source.ErrMalformedRow), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "line 2")

		_, err = source.ParseSessionRows([][]string{{"date_time", "athlete"}, {"yesterday", "A"}})
		So(errors.Is(err, source.ErrMalformedRow), ShouldBeTrue)

		_, err = source.ParseSessionRows([][]string{{"date_time", "athlete", "is_match"}, {"2024-01-01", "A", "maybe"}})
		So(errors.Is(err, source.ErrMalformedRow), ShouldBeTrue)
	})

	Convey("Given a canonical and an alias column for one metric", t, func() {
		rows := [][]string{
			{"date_time", "athlete", "total_distance", "tot_dist"},
			{"2024-01-01", "A", "5000", "5100"},
		}

		Convey("Then the export is rejected instead of picking one", func() {
			for i := 0; i < 20; i++ {
				_, err := source.ParseSessionRows(rows)
				So(errors.Is(err, source.ErrDuplicateColumn), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, `"total_distance" and "tot_dist"`)
			}
		})
	})
}

func TestParseResponses(t *testing.T) {
	Convey("Given form responses", t, func() {
		rows := [][]string{
			{"Timestamp", "Имя Фамилия / Player", "Дата / Session date", "RPE"},
			{"1/5/2024 19:30:00", "Ivan\tPetrov", "05/01", "7"},
			{"12/31/2023 23:30:00", "Ana", "31/12", "4"},
			{"1/6/2024 08:00:00", "", "06/01", "5"},
			{"1/6/2024 08:00:00", "Ana", "2024-01-06", "6.5"},
		}
		resp, err := source.ParseResponseRows(rows, time.Hour)
		So(err, ShouldBeNil)
		So(resp, ShouldHaveLength, 3)

		Convey("Then day/month dates take the submission year", func() {
			So(resp[0].SessionDate, ShouldResemble, model.NewDate(2024, time.January, 5))
			So(resp[1].SessionDate, ShouldResemble, model.NewDate(2023, time.December, 31))
			So(resp[2].SessionDate, ShouldResemble, model.NewDate(2024, time.January, 6))
		})

		Convey("Then submission times are shifted", func() {
			So(resp[0].Timestamp, ShouldEqual, time.Date(2024, 1, 5, 20, 30, 0, 0, time.UTC))
			So(resp[1].Timestamp, ShouldEqual, time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC))
		})

		Convey("Then names are kept raw and scores are integers", func() {
			So(resp[0].AthleteID, ShouldEqual, "Ivan\tPetrov")
			So(resp[0].RPE, ShouldEqual, 7)
			So(resp[2].RPE, ShouldEqual, 6)
		})
	})

	Convey("Given malformed responses", t, func() {
		header := []string{"Timestamp", "Player", "Session date", "RPE"}

		_, err := source.ParseResponseRows([][]string{{"Timestamp", "Player", "RPE"}}, 0)
		So(errors.Is(err, source.ErrMissingColumn), ShouldBeTrue)

		_, err = source.ParseResponseRows([][]string{header, {"1/5/2024 19:30:00", "A", "32/13", "5"}}, 0)
		So(errors.Is(err, source.ErrMalformedRow), ShouldBeTrue)

		_, err = source.ParseResponseRows([][]string{header, {"1/5/2024 19:30:00", "A", "05/01", "hard"}}, 0)
		So(errors.Is(err, source.ErrMalformedRow), ShouldBeTrue)
	})
}
