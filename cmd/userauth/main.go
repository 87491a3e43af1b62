package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/authstack/userauth/internal/app"
	"github.com/authstack/userauth/internal/tools/common"
	"github.com/authstack/userauth/internal/tools/loadgen"
	"github.com/authstack/userauth/internal/tools/ui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:   "userauth",
		Short: "Email/password authentication service with a server-side session ledger",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return common.LoadEnvFile(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading configuration")
	root.AddCommand(newServeCommand())
	root.AddCommand(newSessionsCommand())
	root.AddCommand(newLoadgenCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.InitializeApp(ctx)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
				defer cancel()
				if err := a.Close(closeCtx); err != nil {
					a.Logger.Error("teardown failed", "error", err)
				}
			}()
			return a.Run(ctx)
		},
	}
}

func newSessionsCommand() *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Session ledger maintenance",
	}

	var retention time.Duration
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired sessions older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.InitializeApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			deleted, err := a.Sessions.CleanupExpired(retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired sessions\n", deleted)
			return nil
		},
	}
	cleanup.Flags().DurationVar(&retention, "retention", 720*time.Hour, "keep expired sessions younger than this")
	sessions.AddCommand(cleanup)
	return sessions
}

func newLoadgenCommand() *cobra.Command {
	cfg := loadgen.Config{}
	var ci bool
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Generate synthetic auth traffic against a running instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func(ctx context.Context) ([]string, error) {
				res, err := loadgen.Run(ctx, cfg)
				if err != nil {
					return nil, err
				}
				details := []string{
					fmt.Sprintf("total=%d failures=%d elapsed=%s", res.TotalRequests, res.Failures, res.Elapsed.Round(time.Millisecond)),
				}
				for class, count := range res.StatusClasses {
					details = append(details, fmt.Sprintf("%s=%d", class, count))
				}
				if res.Failures > 0 {
					return details, fmt.Errorf("%d requests failed", res.Failures)
				}
				return details, nil
			}

			var details []string
			var err error
			if ci {
				ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Duration+time.Minute)
				defer cancel()
				details, err = run(ctx)
				common.PrintCIResult(err == nil, "loadgen", details, err)
			} else {
				details, err = ui.Run("loadgen "+cfg.Profile, run)
				for _, d := range details {
					fmt.Fprintln(cmd.OutOrStdout(), d)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&cfg.Profile, "profile", "mixed", "traffic profile: auth, health or mixed")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 10*time.Second, "how long to generate traffic")
	cmd.Flags().IntVar(&cfg.RPS, "rps", 20, "target requests per second")
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 4, "worker count")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 42, "random seed for reproducible traffic")
	cmd.Flags().BoolVar(&ci, "ci", false, "non-interactive machine-readable output")
	return cmd
}
