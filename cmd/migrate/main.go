package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zatekoja/recipemigration/internal/application/services"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
	"github.com/zatekoja/recipemigration/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy blog posts into structured recipes",
		Long: `migrate turns legacy Turkish blog posts into structured recipe records.

Every post is migrated at most once; the migration ledger records the outcome of
each attempt so that interrupted or failed runs can be resumed safely.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		oneCmd(&logLevel),
		batchCmd(&logLevel),
		allCmd(&logLevel),
		statusCmd(&logLevel),
		failedCmd(&logLevel),
		importCmd(&logLevel),
		serveCmd(&logLevel),
	)
	return cmd
}

// withApp loads configuration, initializes logging and wires the services for one command run.
func withApp(cmd *cobra.Command, logLevel string, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Close(shutdownCtx)
	}()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func oneCmd(logLevel *string) *cobra.Command {
	var (
		sourceID string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "one",
		Short: "Migrate a single post",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *logLevel, func(ctx context.Context, a *app) error {
				outcome, err := a.orchestrator.MigrateOne(ctx, sourceID, services.MigrateOptions{DryRun: dryRun})
				if outcome != nil {
					if perr := printJSON(cmd.OutOrStdout(), outcome); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&sourceID, "id", "", "Legacy post ID")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compose the recipe without enrichment or writes")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func batchCmd(logLevel *string) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Migrate the next batch of unmigrated posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *logLevel, func(ctx context.Context, a *app) error {
				if size <= 0 {
					size = a.cfg.Migration.BatchSize
				}
				summary, err := a.orchestrator.MigrateBatch(ctx, size)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "Batch size (defaults to MIGRATION_BATCH_SIZE)")
	return cmd
}

func allCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Migrate every post that has not been migrated yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *logLevel, func(ctx context.Context, a *app) error {
				summary, err := a.orchestrator.MigrateAll(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func statusCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *logLevel, func(ctx context.Context, a *app) error {
				report, err := a.status.Status(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func failedCmd(logLevel *string) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "failed",
		Short: "List posts whose last migration attempt failed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *logLevel, func(ctx context.Context, a *app) error {
				records, err := a.status.ListFailed(ctx, limit, offset)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), records)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum records to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Records to skip")
	return cmd
}

func importCmd(logLevel *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a JSON export of legacy posts into the source store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *logLevel, func(ctx context.Context, a *app) error {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open export: %w", err)
				}
				defer f.Close()

				result, err := a.importer.ImportJSON(ctx, f)
				if result != nil {
					if perr := printJSON(cmd.OutOrStdout(), result); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the JSON export")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
