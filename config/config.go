package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ThresholdsConfig holds the numeric cutoffs that turn a sample into alerts
type ThresholdsConfig struct {
	CPUUsage    float64 `toml:"CPUUsage"`
	MemoryUsage float64 `toml:"MemoryUsage"`
	Latency     float64 `toml:"Latency"`
}

// QueryConfig bounds the recent-metrics queries
type QueryConfig struct {
	DefaultLimit int `toml:"DefaultLimit"`
	MaxLimit     int `toml:"MaxLimit"`
}

// GeneratorConfig drives the synthetic sample generator used in dev/test environments
type GeneratorConfig struct {
	Enabled           bool     `toml:"Enabled"`
	Hosts             []string `toml:"Hosts"`
	IntervalSeconds   uint32   `toml:"IntervalSeconds"`
	MaxBackoffSeconds uint32   `toml:"MaxBackoffSeconds"`
}

// Config maps to the config.toml file for the monitoring service
type Config struct {
	ListenAddress    string           `toml:"ListenAddress"`
	DatabasePath     string           `toml:"DatabasePath"`
	RetentionSeconds int              `toml:"RetentionSeconds"`
	Thresholds       ThresholdsConfig `toml:"Thresholds"`
	Query            QueryConfig      `toml:"Query"`
	Generator        GeneratorConfig  `toml:"Generator"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
