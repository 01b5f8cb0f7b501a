package sheets

import (
	"context"
	"time"

	"halaqa_points/internal/retry"

	"github.com/rs/zerolog/log"
)

// RowSource supplies the rows of a named range, header first.
type RowSource interface {
	Rows(ctx context.Context, rangeName string) ([][]string, error)
}

// RetryingSource retries transient failures of the wrapped source.
type RetryingSource struct {
	source RowSource
	config retry.Config
}

func NewRetryingSource(source RowSource, config retry.Config) *RetryingSource {
	return &RetryingSource{source: source, config: config}
}

func (s *RetryingSource) Rows(ctx context.Context, rangeName string) ([][]string, error) {
	start := time.Now()
	rows, err := retry.WithRetry(ctx, s.config, func(ctx context.Context) ([][]string, error) {
		return s.source.Rows(ctx, rangeName)
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("range", rangeName).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("Read sheet range")
	return rows, nil
}
