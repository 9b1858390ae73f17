package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// config is the YAML run configuration. Every field has a sensible
// default; flags override file values.
type config struct {
	// Layout is the JSON layout file.
	Layout string `yaml:"layout"`
	// Patterns is the comma-separated glob list indexing local assets.
	Patterns string `yaml:"patterns"`
	// AssetDir is the conventional directory local item URLs resolve
	// against.
	AssetDir string `yaml:"asset_dir"`
	// Output is the composed document path, overwritten each run.
	Output string `yaml:"output"`

	Canvas struct {
		Width   float64 `yaml:"width"`
		Height  float64 `yaml:"height"`
		ViewBox string  `yaml:"view_box"`
	} `yaml:"canvas"`

	Fetch struct {
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxBytes       int64  `yaml:"max_bytes"`
		UserAgent      string `yaml:"user_agent"`
	} `yaml:"fetch"`

	// History is a SQLite file recording one row per run. Empty
	// disables the run log.
	History string `yaml:"history"`

	Push struct {
		Message string `yaml:"message"`
	} `yaml:"push"`
}

func (c *config) defaults() {
	if c.Layout == "" {
		c.Layout = "layout.json"
	}
	if c.Patterns == "" {
		c.Patterns = "images/*"
	}
	if c.AssetDir == "" {
		c.AssetDir = "images"
	}
	if c.Output == "" {
		c.Output = "collage.svg"
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = 30
	}
}

func (c *config) fetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// loadConfig reads the YAML file at path; an empty path yields the
// defaults.
func loadConfig(path string) (*config, error) {
	var c config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	c.defaults()
	return &c, nil
}
