package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"halaqa_points/internal/app"
	"halaqa_points/internal/web"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var pretty bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "halaqa-points",
		Short: "Points leaderboard for the memorization halaqa",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.SetupEnvironment()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(
		serveCmd(),
		topCmd(),
		recordsCmd(),
		studentCmd(),
		levelsCmd(),
		nextLevelCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Debug().Msg("Starting application")

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	notifier := app.InitializeNotificationClient(cfg)
	svc, err := app.InitializeService(cmd.Context(), cfg, notifier)
	if err != nil {
		return err
	}

	server := web.NewServer(svc, web.Options{
		Addr:           cfg.Addr(),
		RequestTimeout: cfg.RequestTimeout,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	if err := notifier.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Pending alerts not delivered before shutdown")
	}

	log.Info().Msg("Server stopped")
	return nil
}
