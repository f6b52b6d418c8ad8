package source

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
	"github.com/askoki/orijent-soccer-analytics/pkg/metrics"
)

const (
	sessionsKey  = "sessions"
	responsesKey = "responses"
)

var _ Invalidator = (*Cached)(nil)

// Cached memoizes the tables of an underlying Source for a TTL. Callers
// receive copies, so the cached tables are never mutated. It implements
// Invalidator, so a service refresh always reaches the upstream.
type Cached struct {
	next  Source
	cache *cache.Cache
}

// NewCached wraps next with a TTL cache. A non-positive ttl disables caching.
func NewCached(next Source, ttl time.Duration) *Cached {
	c := &Cached{next: next}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

// Invalidate drops both cached tables. It implements Invalidator.
func (c *Cached) Invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

// Sessions implements GPSSource.
func (c *Cached) Sessions(ctx context.Context) ([]model.SessionRecord, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(sessionsKey); ok {
			metrics.RecordSourceFetch("gps", "hit")
			return cloneSlice(v.([]model.SessionRecord)), nil
		}
	}
	start := time.Now()
	recs, err := c.next.Sessions(ctx)
	if err != nil {
		metrics.RecordSourceFetch("gps", "error")
		return nil, err
	}
	metrics.RecordSourceFetch("gps", "miss")
	metrics.RecordSourceFetchDuration("gps", float64(time.Since(start).Milliseconds()))
	if c.cache != nil {
		c.cache.SetDefault(sessionsKey, cloneSlice(recs))
	}
	return recs, nil
}

// Responses implements RPESource.
func (c *Cached) Responses(ctx context.Context) ([]model.RpeResponse, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(responsesKey); ok {
			metrics.RecordSourceFetch("rpe", "hit")
			return cloneSlice(v.([]model.RpeResponse)), nil
		}
	}
	start := time.Now()
	resp, err := c.next.Responses(ctx)
	if err != nil {
		metrics.RecordSourceFetch("rpe", "error")
		return nil, err
	}
	metrics.RecordSourceFetch("rpe", "miss")
	metrics.RecordSourceFetchDuration("rpe", float64(time.Since(start).Milliseconds()))
	if c.cache != nil {
		c.cache.SetDefault(responsesKey, cloneSlice(resp))
	}
	return resp, nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
