package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgcollage/gitpush"
)

var (
	flagLayout   string
	flagPatterns string
	flagAssetDir string
	flagOutput   string
	flagHistory  string
	flagPush     bool
	flagToken    string
	flagMessage  string
)

// addPipelineFlags registers the flags shared by every command that
// runs the composition pipeline.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLayout, "layout", "", "layout JSON file (default layout.json)")
	cmd.Flags().StringVar(&flagPatterns, "patterns", "", "comma-separated asset glob patterns (default images/*)")
	cmd.Flags().StringVar(&flagAssetDir, "asset-dir", "", "local asset directory (default images)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "output file (default collage.svg)")
	cmd.Flags().StringVar(&flagHistory, "history", "", "SQLite run log file (disabled when empty)")
}

func init() {
	addPipelineFlags(composeCmd)
	composeCmd.Flags().BoolVar(&flagPush, "push", false, "commit and push the output when it changed")
	composeCmd.Flags().StringVar(&flagToken, "token", "", "access token for the push (defaults to $GITHUB_TOKEN)")
	composeCmd.Flags().StringVar(&flagMessage, "message", "", "commit message for the push")
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Assemble the collage once and write the output file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := composeConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return composeOnce(ctx, cmd, cfg)
	},
}

// composeConfig merges the configuration file with the command flags;
// a flag explicitly set wins over the file value.
func composeConfig(cmd *cobra.Command) (*config, error) {
	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("layout") {
		cfg.Layout = flagLayout
	}
	if cmd.Flags().Changed("patterns") {
		cfg.Patterns = flagPatterns
	}
	if cmd.Flags().Changed("asset-dir") {
		cfg.AssetDir = flagAssetDir
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flagOutput
	}
	if cmd.Flags().Changed("history") {
		cfg.History = flagHistory
	}
	if cmd.Flags().Changed("message") {
		cfg.Push.Message = flagMessage
	}
	return cfg, nil
}

func composeOnce(ctx context.Context, cmd *cobra.Command, cfg *config) error {
	res, err := runPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	changed, err := writeOutput(cfg, res)
	if err != nil {
		return err
	}
	reportDiagnostics(res)
	recordHistory(cfg, res)

	if !flagPush {
		if !changed {
			slog.Info("output unchanged", "file", cfg.Output)
		}
		return nil
	}
	token := flagToken
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	committed, err := gitpush.Push(ctx, gitpush.Options{
		File:    cfg.Output,
		Token:   token,
		Message: cfg.Push.Message,
	})
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	if committed {
		fmt.Fprintf(cmd.OutOrStdout(), "committed %s\n", cfg.Output)
	}
	return nil
}
