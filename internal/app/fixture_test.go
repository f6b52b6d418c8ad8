package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/adapters/source"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func day(d int) model.Date { return model.NewDate(2024, time.March, d) }

func at(d, h int) time.Time { return time.Date(2024, time.March, d, h, 0, 0, 0, time.UTC) }

type loads struct{ total, hsr, sprint, recTime float64 }

func gps(athlete string, ts time.Time, match bool, l loads) model.SessionRecord {
	r := model.NewSessionRecord(athlete, ts, match)
	r.Set(model.TotalDistance, l.total)
	r.Set(model.HSRDistance, l.hsr)
	r.Set(model.SprintDistance, l.sprint)
	r.Set(model.MPEAvgRecTime, l.recTime)
	return r
}

func rpe(athlete string, d, score int, submitted time.Time) model.RpeResponse {
	return model.RpeResponse{AthleteID: athlete, SessionDate: day(d), RPE: score, Timestamp: submitted}
}

// fixture has two athletes over two session days in ISO week 10 of 2024.
// Names arrive in mixed case and script, and both tables carry a resubmission.
func fixture() source.Static {
	return source.Static{
		Records: []model.SessionRecord{
			gps("ana", at(4, 10), false, loads{total: 5000, hsr: 400, sprint: 100, recTime: 40}),
			gps("Ivo", at(4, 10), false, loads{total: 3000, hsr: 200, sprint: 50, recTime: 30}),
			gps("ANA", at(6, 18), true, loads{total: 10000, hsr: 800, sprint: 200, recTime: 20}),
			gps("иво", at(6, 18), true, loads{total: 9000, hsr: 600, sprint: 150, recTime: 25}),
			gps(" Ana ", at(4, 10), false, loads{total: 6000, hsr: 400, sprint: 100, recTime: 40}),
		},
		Answers: []model.RpeResponse{
			rpe("Ana", 1, 4, at(1, 19)),
			rpe("Ana", 2, 6, at(2, 19)),
			rpe("Ana", 4, 7, at(4, 21)),
			rpe("Ana", 4, 9, at(4, 19)),
			rpe("Ivo", 4, 5, at(4, 19)),
		},
	}
}

type failingSource struct{}

var errUnavailable = errors.New("unavailable")

func (failingSource) Sessions(context.Context) ([]model.SessionRecord, error) {
	return nil, errUnavailable
}

func (failingSource) Responses(context.Context) ([]model.RpeResponse, error) {
	return nil, nil
}

// changingSource serves tables that the test can swap between refreshes.
type changingSource struct {
	mu      sync.Mutex
	tables  source.Static
	fetches int
}

func (c *changingSource) set(tables source.Static) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = tables
}

func (c *changingSource) Sessions(ctx context.Context) ([]model.SessionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	return c.tables.Sessions(ctx)
}

func (c *changingSource) Responses(ctx context.Context) ([]model.RpeResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tables.Responses(ctx)
}
