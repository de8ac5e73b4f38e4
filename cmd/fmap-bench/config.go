package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config holds all benchmark configuration.
//
// Precedence (highest wins): defaults, config file, CLI flags.
type Config struct {
	Sizes     []int    `json:"sizes"`
	Workloads []string `json:"workloads"`
	Engines   []string `json:"engines"`
	Seed      uint64   `json:"seed"`
	Lookups   int      `json:"lookups"`
	OutPath   string   `json:"out,omitempty"`
}

// DefaultConfig returns the default benchmark configuration.
func DefaultConfig() Config {
	return Config{
		Sizes:     []int{1_000, 10_000, 100_000},
		Workloads: []string{"ascending", "descending", "random", "bulk"},
		Engines:   []string{"flatmap", "btree", "treemap", "stdmap"},
		Seed:      1,
		Lookups:   10_000,
	}
}

// LoadConfig reads a JWCC (JSON with commas and comments) config file
// and overlays it on the defaults. A missing path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	// Standardize JSONC to JSON.
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var overlay Config

	err = json.Unmarshal(standardized, &overlay)
	if err != nil {
		return Config{}, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	cfg = mergeConfig(cfg, overlay)

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if len(overlay.Sizes) > 0 {
		base.Sizes = overlay.Sizes
	}

	if len(overlay.Workloads) > 0 {
		base.Workloads = overlay.Workloads
	}

	if len(overlay.Engines) > 0 {
		base.Engines = overlay.Engines
	}

	if overlay.Seed != 0 {
		base.Seed = overlay.Seed
	}

	if overlay.Lookups != 0 {
		base.Lookups = overlay.Lookups
	}

	if overlay.OutPath != "" {
		base.OutPath = overlay.OutPath
	}

	return base
}

func validateConfig(cfg Config) error {
	for _, size := range cfg.Sizes {
		if size <= 0 {
			return fmt.Errorf("size must be positive, got %d", size)
		}
	}

	for _, workload := range cfg.Workloads {
		if _, ok := workloadGenerators[workload]; !ok {
			return fmt.Errorf("unknown workload %q", workload)
		}
	}

	for _, engine := range cfg.Engines {
		if _, ok := engines[engine]; !ok {
			return fmt.Errorf("unknown engine %q", engine)
		}
	}

	if cfg.Lookups < 0 {
		return fmt.Errorf("lookups must be non-negative, got %d", cfg.Lookups)
	}

	return nil
}
