package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type cachedRows struct {
	rows      [][]string
	timestamp time.Time
}

// CachedSource keeps the raw rows of each range for ttl. Callers build their
// records from the returned rows and must not modify them.
type CachedSource struct {
	source RowSource
	ttl    time.Duration
	cache  sync.Map
	now    func() time.Time
}

func NewCachedSource(source RowSource, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, ttl: ttl, now: time.Now}
}

func (c *CachedSource) Rows(ctx context.Context, rangeName string) ([][]string, error) {
	if c.ttl > 0 {
		if cached, ok := c.cache.Load(rangeName); ok {
			entry := cached.(cachedRows)
			if c.now().Sub(entry.timestamp) < c.ttl {
				log.Debug().Str("range", rangeName).Msg("Serving sheet rows from cache")
				return entry.rows, nil
			}
		}
	}

	rows, err := c.source.Rows(ctx, rangeName)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.cache.Store(rangeName, cachedRows{
			rows:      rows,
			timestamp: c.now(),
		})
	}
	return rows, nil
}
