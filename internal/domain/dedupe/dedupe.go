// Package dedupe collapses duplicate submissions so that each key keeps
// exactly one row: the last one written.
package dedupe

import (
	"time"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// Result reports what a dedup pass removed.
type Result[T any] struct {
	Items []T
	// Dropped is the number of rows that were overridden.
	Dropped int
}

// LastWriteWins keeps one item per key. For each key the winner is the item
// for which no later item is at least as new according to newer; ties go
// to the later item in input order. Output follows the order in which keys
// first appear. A nil newer makes input order alone decide.
func LastWriteWins[T any, K comparable](items []T, key func(T) K, newer func(a, b T) bool) Result[T] {
	index := make(map[K]int, len(items))
	out := make([]T, 0, len(items))
	dropped := 0
	for _, it := range items {
		k := key(it)
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, it)
			continue
		}
		dropped++
		if newer == nil || !newer(out[i], it) {
			out[i] = it
		}
	}
	return Result[T]{Items: out, Dropped: dropped}
}

type sessionKey struct {
	athlete string
	ts      time.Time
}

// Sessions keeps the last record per (athlete, timestamp).
func Sessions(records []model.SessionRecord) Result[model.SessionRecord] {
	return LastWriteWins(records, func(r model.SessionRecord) sessionKey {
		return sessionKey{athlete: r.AthleteID, ts: r.Timestamp.UTC()}
	}, nil)
}

type responseKey struct {
	athlete string
	date    model.Date
}

// Responses keeps the latest submission per (athlete, session date).
func Responses(responses []model.RpeResponse) Result[model.RpeResponse] {
	return LastWriteWins(responses, func(r model.RpeResponse) responseKey {
		return responseKey{athlete: r.AthleteID, date: r.SessionDate}
	}, func(kept, next model.RpeResponse) bool {
		return kept.Timestamp.After(next.Timestamp)
	})
}
