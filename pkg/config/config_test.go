package config

import (
	"os"
	"path/filepath"
	"testing"

	"ebsdgrid/pkg/scan"
)

// TestDefaultConfig verifies the defaults are valid and match the reader defaults
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if cfg.ScanOptions() != scan.DefaultOptions() {
		t.Errorf("Expected default scan options, got %+v", cfg.ScanOptions())
	}
}

// TestLoadConfigMissingFile verifies defaults are returned for a missing file
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Processing.StepSize != 1.0 {
		t.Errorf("Expected default step size 1.0, got %f", cfg.Processing.StepSize)
	}
}

// TestLoadConfigYAML verifies partial YAML overrides keep other defaults
func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `processing:
  stepSize: 9.75
  columns:
    x: X
output:
  imageScale: 4
  verbose: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Processing.StepSize != 9.75 {
		t.Errorf("Expected step size 9.75, got %f", cfg.Processing.StepSize)
	}
	if cfg.Processing.Columns.X != "X" {
		t.Errorf("Expected x column X, got %q", cfg.Processing.Columns.X)
	}
	if cfg.Processing.Columns.Y != "y" {
		t.Errorf("Expected default y column, got %q", cfg.Processing.Columns.Y)
	}
	if cfg.Output.ImageScale != 4 || !cfg.Output.Verbose {
		t.Errorf("Unexpected output section: %+v", cfg.Output)
	}
	if cfg.Output.SPNFile != "grains.spn" {
		t.Errorf("Expected default SPN file, got %q", cfg.Output.SPNFile)
	}
}

// TestLoadConfigTOML verifies TOML files are decoded by extension
func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[processing]
stepSize = 2.5
missingValue = "NA"

[processing.columns]
orientation = ["qa", "qb", "qc", "qd"]

[output]
directory = "results"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	opts := cfg.ScanOptions()
	if cfg.Processing.StepSize != 2.5 || opts.MissingValue != "NA" {
		t.Errorf("Unexpected processing section: %+v", cfg.Processing)
	}
	if opts.Columns.Orientation != [4]string{"qa", "qb", "qc", "qd"} {
		t.Errorf("Expected custom orientation columns, got %v", opts.Columns.Orientation)
	}
	if got := cfg.OutputPath("grains.spn"); got != filepath.Join("results", "grains.spn") {
		t.Errorf("Unexpected output path %q", got)
	}
	if cfg.OutputPath("") != "" {
		t.Error("Expected empty output path for empty name")
	}
}

// TestSaveConfigRoundTrip verifies saved files load back for both formats
func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range []string{"saved.yaml", "saved.toml"} {
		path := filepath.Join(t.TempDir(), "sub", name)

		cfg := DefaultConfig()
		cfg.Processing.StepSize = 0.5
		if err := SaveConfig(cfg, path); err != nil {
			t.Fatalf("%s: SaveConfig failed: %v", name, err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("%s: LoadConfig failed: %v", name, err)
		}
		if loaded.Processing.StepSize != 0.5 {
			t.Errorf("%s: expected step size 0.5, got %f", name, loaded.Processing.StepSize)
		}
		if loaded.ScanOptions() != cfg.ScanOptions() {
			t.Errorf("%s: scan options changed on round trip", name)
		}
	}
}

// TestValidate verifies invalid settings are reported
func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.Processing.StepSize = 0 }},
		{"negative step", func(c *Config) { c.Processing.StepSize = -1 }},
		{"empty sentinel", func(c *Config) { c.Processing.MissingValue = "" }},
		{"empty column", func(c *Config) { c.Processing.Columns.GrainID = " " }},
		{"three orientation columns", func(c *Config) { c.Processing.Columns.Orientation = []string{"a", "b", "c"} }},
		{"zero image scale", func(c *Config) { c.Output.ImageScale = 0 }},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}
