// Package store persists gamelines keyed by (source, home, away, game_day).
// A write to an existing key replaces the whole record.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"

	"ncaablines/internal/model"
)

// Gamelines is the gameline store contract shared by every backend.
type Gamelines interface {
	// Upsert validates g and overwrites whatever is stored at g.Key().
	Upsert(ctx context.Context, g model.Gameline) error
	// All returns every stored gameline. An empty store yields an empty slice.
	All(ctx context.Context) ([]model.Gameline, error)
	// Get returns the gameline at key or a *model.NotFoundError.
	Get(ctx context.Context, key model.Key) (model.Gameline, error)
	Count(ctx context.Context) (int, error)
}

const lockStripes = 64

// keyLock serializes work on the same key while letting most distinct keys
// proceed in parallel.
type keyLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *keyLock) lock(k model.Key) func() {
	m := &l.stripes[xxhash.Sum64String(k.String())%lockStripes]
	m.Lock()
	return m.Unlock
}

// sortLines orders gamelines by day, then source, home and away.
func sortLines(lines []model.Gameline) {
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.GameDay != b.GameDay {
			return a.GameDay < b.GameDay
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Home != b.Home {
			return a.Home < b.Home
		}
		return a.Away < b.Away
	})
}

func notFound(k model.Key) error {
	return &model.NotFoundError{What: "gameline", Key: k.String()}
}
