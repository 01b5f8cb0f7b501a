package config

import (
	"time"

	"halaqa_points/internal/retry"
)

type ResilienceConfig struct {
	SheetRead    retry.Config
	Notification retry.Config
}

// DefaultResilienceConfig keeps a sheet read inside a typical request timeout:
// three attempts of at most 8s plus backoff.
var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: retry.Config{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   4 * time.Second,
		Timeout:    8 * time.Second,
	},
	Notification: retry.Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Second,
		Timeout:    10 * time.Second,
	},
}
