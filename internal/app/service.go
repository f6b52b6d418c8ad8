// Package service loads the GPS and RPE tables, keeps an immutable snapshot
// of them and computes the reports served by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/askoki/orijent-soccer-analytics/internal/adapters/repository"
	"github.com/askoki/orijent-soccer-analytics/internal/adapters/source"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/bands"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/calendar"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/dedupe"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/names"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/relative"
	"github.com/askoki/orijent-soccer-analytics/pkg/logger"
	"github.com/askoki/orijent-soccer-analytics/pkg/metrics"
)

const (
	defaultWindowSessions = 7
	defaultMaxWindowDays  = 366
)

// Service computes reports over the latest published dataset.
type Service struct {
	mu sync.RWMutex

	// Core components
	source     source.Source
	store      repository.Store
	classifier *bands.Classifier

	// Configuration
	windowSessions  int
	maxWindowDays   int
	topN            int
	refreshInterval time.Duration

	// State
	started     bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
	refreshes   int
	lastRefresh time.Time
	lastError   error

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the tables are loaded from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClassifier sets the band classifier.
func WithClassifier(c *bands.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithWindowSessions sets how many distinct session dates the default
// window reaches back.
func WithWindowSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.windowSessions = n
		}
	}
}

// WithMaxWindowDays caps how many calendar days a report window may span.
func WithMaxWindowDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxWindowDays = n
		}
	}
}

// WithReferenceTopN sets how many top values form a relative reference.
func WithReferenceTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithRefreshInterval enables periodic background refreshes.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithSource it serves empty tables.
func New(opts ...Option) *Service {
	s := &Service{
		source:         source.Static{},
		store:          repository.NewMemoryStore(),
		classifier:     bands.NewClassifier(),
		windowSessions: defaultWindowSessions,
		maxWindowDays:  defaultMaxWindowDays,
		topN:           relative.DefaultTopN,
		stopCh:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the first snapshot and, when an interval is configured,
// starts the background refresher. A failed first load is logged and
// retried on the next tick; reports return ErrNoData until then.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info(ctx, "starting analytics service...",
		logger.Int("windowSessions", s.windowSessions),
		logger.Int("referenceTopN", s.topN),
		logger.Duration("refreshInterval", s.refreshInterval),
	)

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial refresh failed", logger.Error(err))
	}

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(s.stopCh)
	}
	s.logger.Info(ctx, "analytics service started")
	return nil
}

func (s *Service) refreshLoop(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.refreshInterval)
			if err := s.Refresh(ctx); err != nil {
				s.log().Warn(ctx, "scheduled refresh failed", logger.Error(err))
			}
			cancel()
		}
	}
}

// Stop halts the background refresher.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.log().Info(context.Background(), "analytics service stopped")
}

// Refresh reloads both tables, canonicalizes athlete names, collapses
// duplicate submissions and publishes the result as the new snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()
	err := s.refresh(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordRefresh(status, float64(time.Since(start).Milliseconds()))

	s.mu.Lock()
	s.lastError = err
	if err == nil {
		s.refreshes++
		s.lastRefresh = time.Now()
	}
	s.mu.Unlock()
	return err
}

func (s *Service) refresh(ctx context.Context) error {
	var (
		sessions  []model.SessionRecord
		responses []model.RpeResponse
	)
	if inv, ok := s.source.(source.Invalidator); ok {
		inv.Invalidate()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.source.Sessions(gctx)
		if err != nil {
			return fmt.Errorf("load gps: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		responses, err = s.source.Responses(gctx)
		if err != nil {
			return fmt.Errorf("load rpe: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range sessions {
		sessions[i].AthleteID = names.Normalize(sessions[i].AthleteID)
	}
	for i := range responses {
		responses[i].AthleteID = names.Normalize(responses[i].AthleteID)
	}

	sd := dedupe.Sessions(sessions)
	rd := dedupe.Responses(responses)
	metrics.RecordDuplicates("gps", sd.Dropped)
	metrics.RecordDuplicates("rpe", rd.Dropped)

	ds := repository.NewDataset(sd.Items, rd.Items)
	if err := s.store.Publish(ctx, ds); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	s.log().Info(ctx, "dataset refreshed",
		logger.Int("sessions", len(sd.Items)),
		logger.Int("responses", len(rd.Items)),
		logger.Int("duplicateSessions", sd.Dropped),
		logger.Int("duplicateResponses", rd.Dropped),
		logger.Int("athletes", len(ds.Athletes())),
	)
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"windowSessions": s.windowSessions,
		"referenceTopN":  s.topN,
		"refreshes":      s.refreshes,
	}
	if !s.lastRefresh.IsZero() {
		stats["lastRefresh"] = s.lastRefresh.UTC().Format(time.RFC3339)
	}
	if s.lastError != nil {
		stats["lastError"] = s.lastError.Error()
	}
	if ds, err := s.store.Snapshot(context.Background()); err == nil {
		stats["version"] = ds.Version
		stats["sessions"] = len(ds.Sessions())
		stats["responses"] = len(ds.Responses())
		stats["athletes"] = len(ds.Athletes())
	}
	return stats
}

// Window is an inclusive date range.
type Window struct {
	Start model.Date `json:"start"`
	End   model.Date `json:"end"`
}

// Catalog lists what can be reported on.
type Catalog struct {
	Version      uint64       `json:"version"`
	PublishedAt  time.Time    `json:"publishedAt"`
	Athletes     []string     `json:"athletes"`
	SessionDates []model.Date `json:"sessionDates"`
	RPEDates     []model.Date `json:"rpeDates"`
	Window       *Window      `json:"window,omitempty"`
	RPEWindow    *Window      `json:"rpeWindow,omitempty"`
}

// Catalog returns athletes, dates and the default display windows.
func (s *Service) Catalog(ctx context.Context) (Catalog, error) {
	ds, err := s.snapshot(ctx)
	if err != nil {
		return Catalog{}, err
	}
	c := Catalog{
		Version:      ds.Version,
		PublishedAt:  ds.PublishedAt,
		Athletes:     ds.Athletes(),
		SessionDates: ds.SessionDates(),
		RPEDates:     ds.RPEDates(),
	}
	if start, end, ok := calendar.DefaultWindow(c.SessionDates, s.windowSessions); ok {
		c.Window = &Window{Start: start, End: end}
	}
	if start, end, ok := calendar.DefaultWindow(c.RPEDates, s.windowSessions); ok {
		c.RPEWindow = &Window{Start: start, End: end}
	}
	return c, nil
}

func (s *Service) snapshot(ctx context.Context) (*repository.Dataset, error) {
	ds, err := s.store.Snapshot(ctx)
	if errors.Is(err, repository.ErrNoData) {
		return nil, ErrNoData
	}
	return ds, err
}

// resolveWindow fills a missing bound from the default window over dates
// and rejects reversed or oversized windows.
func (s *Service) resolveWindow(dates []model.Date, start, end model.Date) (Window, error) {
	if start.IsZero() || end.IsZero() {
		ds, de, ok := calendar.DefaultWindow(dates, s.windowSessions)
		if !ok {
			return Window{}, ErrNoData
		}
		if start.IsZero() {
			start = ds
		}
		if end.IsZero() {
			end = de
		}
	}
	if start.After(end) {
		return Window{}, fmt.Errorf("%w: %s after %s", ErrInvalidRange, start, end)
	}
	if days := calendar.DaysBetween(start, end) + 1; days > s.maxWindowDays {
		return Window{}, fmt.Errorf("%w: %d days exceeds the %d day limit", ErrInvalidRange, days, s.maxWindowDays)
	}
	return Window{Start: start, End: end}, nil
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}
