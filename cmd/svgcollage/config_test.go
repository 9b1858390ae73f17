package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != "layout.json" {
		t.Errorf("layout: got %q", cfg.Layout)
	}
	if cfg.Patterns != "images/*" {
		t.Errorf("patterns: got %q", cfg.Patterns)
	}
	if cfg.AssetDir != "images" {
		t.Errorf("asset dir: got %q", cfg.AssetDir)
	}
	if cfg.Output != "collage.svg" {
		t.Errorf("output: got %q", cfg.Output)
	}
	if cfg.fetchTimeout() != 30*time.Second {
		t.Errorf("fetch timeout: got %s", cfg.fetchTimeout())
	}
	if cfg.History != "" {
		t.Errorf("history should be disabled by default, got %q", cfg.History)
	}
}

func TestLoadConfigFile(t *testing.T) {
	const doc = `
layout: boards/main.json
output: out/collage.svg
canvas:
  width: 800
  height: 400
  view_box: "0 0 800 400"
fetch:
  timeout_seconds: 5
  user_agent: test-agent
history: runs.db
push:
  message: regenerate collage
`
	path := filepath.Join(t.TempDir(), "svgcollage.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout != "boards/main.json" {
		t.Errorf("layout: got %q", cfg.Layout)
	}
	if cfg.Output != "out/collage.svg" {
		t.Errorf("output: got %q", cfg.Output)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 400 {
		t.Errorf("canvas: got %gx%g", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.ViewBox != "0 0 800 400" {
		t.Errorf("view box: got %q", cfg.Canvas.ViewBox)
	}
	if cfg.fetchTimeout() != 5*time.Second {
		t.Errorf("fetch timeout: got %s", cfg.fetchTimeout())
	}
	if cfg.Fetch.UserAgent != "test-agent" {
		t.Errorf("user agent: got %q", cfg.Fetch.UserAgent)
	}
	if cfg.History != "runs.db" {
		t.Errorf("history: got %q", cfg.History)
	}
	if cfg.Push.Message != "regenerate collage" {
		t.Errorf("push message: got %q", cfg.Push.Message)
	}
	// Unset fields still fall back to defaults.
	if cfg.AssetDir != "images" {
		t.Errorf("asset dir default: got %q", cfg.AssetDir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
