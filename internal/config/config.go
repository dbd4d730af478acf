// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"

	"migration-cost/internal/errors"
	"migration-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// AWS contains AWS-specific configuration
	AWS AWSConfig `json:"aws"`

	// Estimate contains estimation run settings
	Estimate EstimateConfig `json:"estimate"`

	// Report contains report output settings
	Report ReportConfig `json:"report"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// AWSConfig contains AWS-specific settings
type AWSConfig struct {
	// Region is the region estimated against
	Region string `json:"region"`

	// PricingLocation is the Pricing API location name matching Region
	PricingLocation string `json:"pricing_location"`

	// Tenancy is the tenancy filter for on-demand lookups
	Tenancy string `json:"tenancy"`

	// CapacityStatus is the capacitystatus filter for on-demand lookups
	CapacityStatus string `json:"capacity_status"`
}

// EstimateConfig contains estimation run settings
type EstimateConfig struct {
	// Workers is the worker pool size
	Workers int `json:"workers"`
}

// ReportConfig contains report output settings
type ReportConfig struct {
	// Currency label used in rendered reports
	Currency string `json:"currency"`

	// Title is the heading used by the PDF quote
	Title string `json:"title"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1",
		AWS: AWSConfig{
			Region:          "us-east-1",
			PricingLocation: "US East (N. Virginia)",
			Tenancy:         "Shared",
			CapacityStatus:  "Used",
		},
		Estimate: EstimateConfig{
			Workers: 5,
		},
		Report: ReportConfig{
			Currency: "USD",
			Title:    "Cloud Migration Cost Estimate",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("failed to read config file", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Config("failed to parse config file", err)
	}

	if cfg.Estimate.Workers <= 0 {
		cfg.Estimate.Workers = Default().Estimate.Workers
	}

	return cfg, nil
}

var current = Default()

// Get returns the current configuration
func Get() *Config {
	return current
}

// Set replaces the current configuration
func Set(cfg *Config) {
	if cfg != nil {
		current = cfg
	}
}
