package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/askoki/orijent-soccer-analytics/internal/app"
	"github.com/askoki/orijent-soccer-analytics/internal/adapters/repository"
	"github.com/askoki/orijent-soccer-analytics/internal/adapters/source"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service over a static source", t, func() {
		svc := service.New(service.WithSource(fixture()), service.WithRefreshInterval(time.Hour))
		defer svc.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the first snapshot is published", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["version"], ShouldEqual, uint64(1))
				So(stats["sessions"], ShouldEqual, 4)
				So(stats["responses"], ShouldEqual, 4)
				So(stats["athletes"], ShouldEqual, 2)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Refresh(t *testing.T) {
	Convey("Given a service that was never refreshed", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := service.New(service.WithSource(fixture()), service.WithStore(store))

		Convey("Then reports have no data", func() {
			_, err := svc.Catalog(ctx)
			So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
			_, err = svc.SessionReport(ctx, day(4))
			So(errors.Is(err, service.ErrNoData), ShouldBeTrue)
		})

		Convey("When refreshed", func() {
			So(svc.Refresh(ctx), ShouldBeNil)
			ds, err := store.Snapshot(ctx)
			So(err, ShouldBeNil)

			Convey("Then names are canonical across scripts and cases", func() {
				So(ds.Athletes(), ShouldResemble, []string{"ANA", "IVO"})
			})

			Convey("Then the last GPS submission wins", func() {
				recs, err := ds.AthleteSessions("ANA")
				So(err, ShouldBeNil)
				So(recs, ShouldHaveLength, 2)
				So(recs[0].Value(model.TotalDistance), ShouldEqual, 6000)
			})

			Convey("Then the latest RPE submission wins over input order", func() {
				answers := ds.ResponsesOn(day(4))
				So(answers, ShouldHaveLength, 2)
				So(answers[0].AthleteID, ShouldEqual, "ANA")
				So(answers[0].RPE, ShouldEqual, 7)
			})
		})

		Convey("When a later refresh fails", func() {
			So(svc.Refresh(ctx), ShouldBeNil)
			broken := service.New(service.WithSource(failingSource{}), service.WithStore(store))
			err := broken.Refresh(ctx)

			Convey("Then the error is reported and the old snapshot stays", func() {
				So(errors.Is(err, errUnavailable), ShouldBeTrue)
				So(broken.GetStats()["lastError"], ShouldContainSubstring, "unavailable")
				ds, err := store.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(ds.Version, ShouldEqual, 1)
			})
		})
	})
}

func TestService_RefreshThroughCache(t *testing.T) {
	Convey("Given a service reading through a long-lived table cache", t, func() {
		ctx := context.Background()
		upstream := &changingSource{tables: source.Static{
			Records: []model.SessionRecord{gps("Ana", at(4, 10), false, loads{total: 5000})},
		}}
		cached := source.NewCached(upstream, 10*time.Minute)
		svc := service.New(service.WithSource(cached))
		So(svc.Refresh(ctx), ShouldBeNil)

		Convey("When the upstream gains an athlete and the service refreshes", func() {
			upstream.set(source.Static{Records: []model.SessionRecord{
				gps("Ana", at(4, 10), false, loads{total: 5000}),
				gps("Ivo", at(6, 10), false, loads{total: 3000}),
			}})
			So(svc.Refresh(ctx), ShouldBeNil)

			Convey("Then the new tables are published", func() {
				c, err := svc.Catalog(ctx)
				So(err, ShouldBeNil)
				So(c.Version, ShouldEqual, uint64(2))
				So(c.Athletes, ShouldResemble, []string{"ANA", "IVO"})
				So(c.SessionDates, ShouldResemble, []model.Date{day(4), day(6)})
				So(upstream.fetches, ShouldEqual, 2)
			})
		})

		Convey("When the cache is read outside a refresh", func() {
			_, err := cached.Sessions(ctx)
			So(err, ShouldBeNil)

			Convey("Then it is served from memory", func() {
				So(upstream.fetches, ShouldEqual, 1)
			})
		})
	})
}

func TestService_Catalog(t *testing.T) {
	Convey("Given a refreshed service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithSource(fixture()), service.WithWindowSessions(1))
		So(svc.Refresh(ctx), ShouldBeNil)

		Convey("When the catalog is read", func() {
			c, err := svc.Catalog(ctx)
			So(err, ShouldBeNil)

			Convey("Then it lists athletes and dates with default windows", func() {
				So(c.Athletes, ShouldResemble, []string{"ANA", "IVO"})
				So(c.SessionDates, ShouldResemble, []model.Date{day(4), day(6)})
				So(c.RPEDates, ShouldHaveLength, 3)
				So(*c.Window, ShouldResemble, service.Window{Start: day(4), End: day(6)})
				So(*c.RPEWindow, ShouldResemble, service.Window{Start: day(2), End: day(4)})
			})
		})
	})
}
