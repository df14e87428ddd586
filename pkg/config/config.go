// Package config provides configuration loading and management for ebsdgrid.
// It handles loading configuration from YAML or TOML files and provides
// default values.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"ebsdgrid/pkg/scan"
)

// Config represents the application configuration
type Config struct {
	// Processing parameters
	Processing struct {
		// StepSize is the physical distance covered by one grid cell, in the
		// units of the scan coordinates
		StepSize float64 `yaml:"stepSize" toml:"stepSize"`

		// MissingValue is the literal that marks a missing field
		MissingValue string `yaml:"missingValue" toml:"missingValue"`

		// Columns names the header fields of the scan export
		Columns struct {
			X           string   `yaml:"x" toml:"x"`
			Y           string   `yaml:"y" toml:"y"`
			PhaseID     string   `yaml:"phaseId" toml:"phaseId"`
			GrainID     string   `yaml:"grainId" toml:"grainId"`
			Orientation []string `yaml:"orientation" toml:"orientation"`
		} `yaml:"columns" toml:"columns"`
	} `yaml:"processing" toml:"processing"`

	// Output parameters
	Output struct {
		// Directory receives every output file
		Directory string `yaml:"directory" toml:"directory"`

		// SPNFile is the grain id grid for the mesher, empty to skip
		SPNFile string `yaml:"spnFile" toml:"spnFile"`

		// GrainFile is the per-grain CSV table, empty to skip
		GrainFile string `yaml:"grainFile" toml:"grainFile"`

		// OrientationFile is the Euler angle list for the solver, empty to skip
		OrientationFile string `yaml:"orientationFile" toml:"orientationFile"`

		// ImageFile is the rendered grain map, empty to skip
		ImageFile string `yaml:"imageFile" toml:"imageFile"`

		// ImageScale is the number of image pixels per grid cell
		ImageScale int `yaml:"imageScale" toml:"imageScale"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose" toml:"verbose"`
	} `yaml:"output" toml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cols := scan.DefaultColumns()
	cfg.Processing.StepSize = 1.0
	cfg.Processing.MissingValue = scan.DefaultMissingValue
	cfg.Processing.Columns.X = cols.X
	cfg.Processing.Columns.Y = cols.Y
	cfg.Processing.Columns.PhaseID = cols.PhaseID
	cfg.Processing.Columns.GrainID = cols.GrainID
	cfg.Processing.Columns.Orientation = cols.Orientation[:]

	// Set default output parameters
	cfg.Output.Directory = "output"
	cfg.Output.SPNFile = "grains.spn"
	cfg.Output.GrainFile = "grains.csv"
	cfg.Output.OrientationFile = "orientations.csv"
	cfg.Output.ImageFile = "grains.png"
	cfg.Output.ImageScale = 1
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that the configuration can drive a reconstruction
func (c *Config) Validate() error {
	step := c.Processing.StepSize
	if !(step > 0) || math.IsInf(step, 0) {
		return fmt.Errorf("processing.stepSize must be a positive number, got %g", step)
	}
	if c.Processing.MissingValue == "" {
		return fmt.Errorf("processing.missingValue must not be empty")
	}

	cols := c.Processing.Columns
	named := map[string]string{
		"x":       cols.X,
		"y":       cols.Y,
		"phaseId": cols.PhaseID,
		"grainId": cols.GrainID,
	}
	for key, name := range named {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("processing.columns.%s must not be empty", key)
		}
	}
	if len(cols.Orientation) != 4 {
		return fmt.Errorf("processing.columns.orientation must list 4 columns, got %d", len(cols.Orientation))
	}

	if c.Output.ImageScale < 1 {
		return fmt.Errorf("output.imageScale must be at least 1, got %d", c.Output.ImageScale)
	}
	return nil
}

// ScanOptions converts the processing section into reader options
func (c *Config) ScanOptions() scan.Options {
	cols := c.Processing.Columns
	opts := scan.Options{
		Columns: scan.Columns{
			X:       cols.X,
			Y:       cols.Y,
			PhaseID: cols.PhaseID,
			GrainID: cols.GrainID,
		},
		MissingValue: c.Processing.MissingValue,
	}
	copy(opts.Columns.Orientation[:], cols.Orientation)
	return opts
}

// OutputPath joins name onto the output directory, or returns "" for an
// empty name
func (c *Config) OutputPath(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(c.Output.Directory, name)
}

// LoadConfig loads configuration from a YAML or TOML file, chosen by the
// file extension. If the file doesn't exist, it returns the default
// configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse
	if isTOML(configPath) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML or TOML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config
	var data []byte
	if isTOML(configPath) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
