package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zatekoja/recipemigration/internal/evaluation"
	"github.com/zatekoja/recipemigration/internal/extraction"
	"github.com/zatekoja/recipemigration/internal/infrastructure/observability"
	"github.com/zatekoja/recipemigration/pkg/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		goldenPath string
		rulesPath  string
		thresholds evaluation.Thresholds
	)

	cmd := &cobra.Command{
		Use:          "evaluate",
		Short:        "Score ingredient extraction and age classification against hand-labelled posts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env, cfg.App.LogLevel)

			if rulesPath == "" {
				rulesPath = cfg.Migration.RulesPath
			}
			rules, err := extraction.LoadRules(rulesPath)
			if err != nil {
				return err
			}

			posts, err := evaluation.LoadGoldenPosts(goldenPath)
			if err != nil {
				return err
			}
			if err := evaluation.ValidateGoldenPosts(posts); err != nil {
				return fmt.Errorf("invalid golden posts: %w", err)
			}

			summary, err := evaluation.NewRunner(rules).Run(cmd.Context(), posts)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if violations := thresholds.Check(summary); len(violations) > 0 {
				for _, v := range violations {
					log.Error().Msg(v)
				}
				return fmt.Errorf("evaluation below thresholds: %s", strings.Join(violations, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&goldenPath, "golden", "config/golden_posts.json", "Path to the golden post set")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Extraction rules override file (defaults to MIGRATION_RULES_PATH)")
	cmd.Flags().Float64Var(&thresholds.MinRecall, "min-recall", 0, "Minimum average ingredient recall")
	cmd.Flags().Float64Var(&thresholds.MinPrecision, "min-precision", 0, "Minimum average ingredient precision")
	cmd.Flags().Float64Var(&thresholds.MinAgeGroupAccuracy, "min-age-accuracy", 0, "Minimum age group accuracy")
	return cmd
}
