package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgcollage/runlog"
)

var (
	flagHistoryN        int
	flagHistoryWarnings bool
)

func init() {
	historyCmd.Flags().StringVar(&flagHistory, "history", "", "SQLite run log file")
	historyCmd.Flags().IntVarP(&flagHistoryN, "count", "n", 10, "number of runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryWarnings, "warnings", false, "also show the warnings of each run")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent composition runs from the run log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("history") {
			cfg.History = flagHistory
		}
		if cfg.History == "" {
			return fmt.Errorf("no run log configured: set history in the config file or pass --history")
		}

		store, err := runlog.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(flagHistoryN)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "no runs recorded")
			return nil
		}

		bold := color.New(color.Bold)
		warn := color.New(color.FgYellow)
		for _, run := range runs {
			started := time.UnixMicro(run.StartedAt).Format(time.RFC3339)
			bold.Fprintf(out, "%s  %s\n", started, run.ID)
			fmt.Fprintf(out, "  items=%d failures=%d took=%s hash=%.12s\n",
				run.Items, run.Failures, time.Duration(run.DurationUs)*time.Microsecond, run.OutputHash)
			if !flagHistoryWarnings || run.Failures == 0 {
				continue
			}
			warnings, err := store.Warnings(run.ID)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				warn.Fprintf(out, "  warn: %s: %s\n", w.ItemURL, w.Message)
			}
		}
		return nil
	},
}
