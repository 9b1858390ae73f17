package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/benoitkugler/svgcollage/runlog"
	"github.com/benoitkugler/svgcollage/svgcompose"
	"github.com/benoitkugler/svgcollage/svgfetch"
	"github.com/benoitkugler/svgcollage/svglayout"
	"github.com/benoitkugler/svgcollage/svgopt"
)

// composeResult is the outcome of one pipeline run.
type composeResult struct {
	Text     string
	Hash     string // SHA-256 of Text
	Items    int
	Diag     *svgcompose.Diagnostics
	Duration time.Duration
}

// runPipeline executes layout parse -> asset index -> composition ->
// post-processing. Errors returned here are the fatal kind: malformed
// input or an unreadable configuration; per-item failures end up in
// the diagnostics instead.
func runPipeline(ctx context.Context, cfg *config) (*composeResult, error) {
	start := time.Now()

	data, err := os.ReadFile(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	items, err := svglayout.ParseLayout(data)
	if err != nil {
		return nil, err
	}
	index, err := svglayout.BuildAssetIndex("", cfg.Patterns)
	if err != nil {
		return nil, err
	}

	resolver := svgfetch.NewResolver(index, svgfetch.ResolverConfig{
		AssetDir: cfg.AssetDir,
		Fetch: svgfetch.Config{
			Timeout:   cfg.fetchTimeout(),
			MaxBytes:  cfg.Fetch.MaxBytes,
			UserAgent: cfg.Fetch.UserAgent,
		},
	})

	root, diag := svgcompose.Compose(ctx, items, resolver, svgcompose.Config{
		Width:   cfg.Canvas.Width,
		Height:  cfg.Canvas.Height,
		ViewBox: cfg.Canvas.ViewBox,
	})
	text, err := svgopt.Postprocess(root, svgopt.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}

	sum := sha256.Sum256([]byte(text))
	return &composeResult{
		Text:     text,
		Hash:     hex.EncodeToString(sum[:]),
		Items:    len(items),
		Diag:     diag,
		Duration: time.Since(start),
	}, nil
}

// writeOutput writes the composed text, reporting whether the file
// content actually changed.
func writeOutput(cfg *config, res *composeResult) (changed bool, err error) {
	if prev, err := os.ReadFile(cfg.Output); err == nil && bytes.Equal(prev, []byte(res.Text)) {
		return false, nil
	}
	if err := os.WriteFile(cfg.Output, []byte(res.Text), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	return true, nil
}

// reportDiagnostics prints the per-item warnings of a run.
func reportDiagnostics(res *composeResult) {
	warn := color.New(color.FgYellow)
	for _, w := range res.Diag.Warnings() {
		warn.Fprintf(os.Stderr, "warn: %s\n", w)
	}
	slog.Info("composed", "items", res.Items, "warnings", res.Diag.Len(), "took", res.Duration)
}

// recordHistory appends the run to the SQLite log when enabled.
func recordHistory(cfg *config, res *composeResult) {
	if cfg.History == "" {
		return
	}
	store, err := runlog.Open(cfg.History)
	if err != nil {
		slog.Warn("run log unavailable", "error", err)
		return
	}
	defer store.Close()

	run := runlog.NewRun()
	run.DurationUs = res.Duration.Microseconds()
	run.Items = res.Items
	run.Failures = res.Diag.Len()
	run.OutputHash = res.Hash

	warnings := make([]runlog.Warning, 0, res.Diag.Len())
	for _, w := range res.Diag.Warnings() {
		warnings = append(warnings, runlog.Warning{ItemURL: w.Item.URL, Message: w.Msg})
	}
	if err := store.Record(run, warnings); err != nil {
		slog.Warn("run log write failed", "error", err)
	}
}
