package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var flagDebounce time.Duration

func init() {
	addPipelineFlags(watchCmd)
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", 500*time.Millisecond, "quiet period before recomposing after a change")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompose whenever the layout or an asset changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := composeConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return watchLoop(ctx, cfg)
	},
}

func watchLoop(ctx context.Context, cfg *config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	layoutDir := filepath.Dir(cfg.Layout)
	if err := watcher.Add(layoutDir); err != nil {
		return err
	}
	if _, err := os.Stat(cfg.AssetDir); err == nil {
		if err := watcher.Add(cfg.AssetDir); err != nil {
			return err
		}
	}

	recompose := func() {
		res, err := runPipeline(ctx, cfg)
		if err != nil {
			slog.Error("compose failed", "error", err)
			return
		}
		if _, err := writeOutput(cfg, res); err != nil {
			slog.Error("write failed", "error", err)
			return
		}
		reportDiagnostics(res)
		recordHistory(cfg, res)
	}
	recompose()

	// Debounce: editors and checkouts touch several files in a burst;
	// wait for a quiet period before recomposing.
	var timer *time.Timer
	var fire <-chan time.Time

	slog.Info("watching", "layout", cfg.Layout, "assets", cfg.AssetDir, "debounce", flagDebounce)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			slog.Info("watch stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(cfg, ev) {
				continue
			}
			slog.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(flagDebounce)
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			recompose()
		}
	}
}

// relevantEvent filters out writes to unrelated files in the layout
// directory, the output file included.
func relevantEvent(cfg *config, ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == filepath.Clean(cfg.Output) {
		return false
	}
	if name == filepath.Clean(cfg.Layout) {
		return true
	}
	rel, err := filepath.Rel(cfg.AssetDir, name)
	return err == nil && filepath.IsLocal(rel)
}
