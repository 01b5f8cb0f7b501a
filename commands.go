package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"halaqa_points/internal/app"
	"halaqa_points/internal/leaderboard"
	"halaqa_points/internal/levels"

	"github.com/spf13/cobra"
)

func topCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Print the top students",
		Args:  cobra.NoArgs,
		RunE: withService(func(cmd *cobra.Command, svc *leaderboard.Service, args []string) (interface{}, error) {
			return svc.TopStudents(cmd.Context())
		}),
	}
}

func recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records <student-id>",
		Short: "Print a student's points history",
		Args:  cobra.ExactArgs(1),
		RunE: withService(func(cmd *cobra.Command, svc *leaderboard.Service, args []string) (interface{}, error) {
			return svc.StudentRecords(cmd.Context(), args[0])
		}),
	}
}

func studentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "student <student-id>",
		Short: "Print a student's profile and level progress",
		Args:  cobra.ExactArgs(1),
		RunE: withService(func(cmd *cobra.Command, svc *leaderboard.Service, args []string) (interface{}, error) {
			return svc.Student(cmd.Context(), args[0])
		}),
	}
}

func levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Print the level table",
		Args:  cobra.NoArgs,
		RunE: withTable(func(table levels.Table, args []string) (interface{}, error) {
			return table.Levels(), nil
		}),
	}
}

func nextLevelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next-level <points>",
		Short: "Print the next level for a point total",
		Args:  cobra.ExactArgs(1),
		RunE: withTable(func(table levels.Table, args []string) (interface{}, error) {
			points, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("invalid points %q: %w", args[0], err)
			}
			return table.Progress(points), nil
		}),
	}
}

// withService runs query against a service built from the environment and prints the result.
func withService(query func(*cobra.Command, *leaderboard.Service, []string) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}
		notifier := app.InitializeNotificationClient(cfg)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			notifier.Close(ctx)
		}()

		svc, err := app.InitializeService(cmd.Context(), cfg, notifier)
		if err != nil {
			return err
		}

		result, err := query(cmd, svc, args)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	}
}

// withTable runs query against the level table alone; no data source is needed.
func withTable(query func(levels.Table, []string) (interface{}, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		table, err := app.LoadLevels(os.Getenv("LEVELS_FILE"))
		if err != nil {
			return err
		}

		result, err := query(table, args)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
