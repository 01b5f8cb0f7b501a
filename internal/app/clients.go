package app

import (
	"context"
	"fmt"

	"halaqa_points/internal/config"
	"halaqa_points/internal/leaderboard"
	"halaqa_points/internal/notifications"
	"halaqa_points/internal/sheets"

	"github.com/rs/zerolog/log"
)

// InitializeSource builds the row source chain: the Google Sheets client (or a
// local workbook when WORKBOOK_PATH is set), retried, then cached.
func InitializeSource(ctx context.Context, cfg Config) (sheets.RowSource, error) {
	log.Debug().Msg("Initializing row source")

	var source sheets.RowSource
	if cfg.WorkbookPath != "" {
		log.Info().Str("path", cfg.WorkbookPath).Msg("Reading points from local workbook")
		source = sheets.NewWorkbook(cfg.WorkbookPath)
	} else {
		client, err := sheets.NewClient(ctx, cfg.SpreadsheetID, cfg.Credentials())
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		source = client
	}

	source = sheets.NewRetryingSource(source, config.DefaultResilienceConfig.SheetRead)
	return sheets.NewCachedSource(source, cfg.CacheTTL), nil
}

// InitializeNotificationClient creates and returns the notification client
func InitializeNotificationClient(cfg Config) *notifications.Client {
	log.Debug().
		Bool("enabled", cfg.NtfyEnabled).
		Str("base_url", cfg.NtfyURL).
		Str("topic", cfg.NtfyTopic).
		Msg("Initializing notification client")

	client := notifications.NewClient(notifications.Options{
		BaseURL: cfg.NtfyURL,
		Topic:   cfg.NtfyTopic,
		Enabled: cfg.NtfyEnabled,
		Retry:   config.DefaultResilienceConfig.Notification,
	})

	if cfg.NtfyEnabled {
		log.Info().Str("topic", cfg.NtfyTopic).Msg("Notifications enabled")
	} else {
		log.Debug().Msg("Notifications disabled")
	}

	return client
}

// InitializeService wires the source and level table into a leaderboard.Service
// that reports source failures to reporter, which may be nil.
func InitializeService(ctx context.Context, cfg Config, reporter leaderboard.FailureReporter) (*leaderboard.Service, error) {
	table, err := LoadLevels(cfg.LevelsFile)
	if err != nil {
		return nil, err
	}

	source, err := InitializeSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return leaderboard.NewService(source, cfg.Ranges(), table, reporter), nil
}
