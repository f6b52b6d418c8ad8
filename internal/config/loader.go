package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// Environment keys.
const (
	envPrefix     = "ORIJENT_"
	envConfigFile = "ORIJENT_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ORIJENT_CONFIG is set
//  3. env (prefix ORIJENT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// ORIJENT_GPS_PATH -> gps_path; underscores are kept to match the tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(envPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.GPSSource {
	case SourceFile:
		if c.GPSPath == "" {
			return fmt.Errorf("%w: gps_path must be set for the file source", ErrInvalidConfig)
		}
	case SourceDrive:
		if c.GPSDriveFileID == "" {
			return fmt.Errorf("%w: gps_drive_file_id must be set for the drive source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown gps_source %q", ErrInvalidConfig, c.GPSSource)
	}
	switch c.RPESource {
	case SourceFile:
		if c.RPEPath == "" {
			return fmt.Errorf("%w: rpe_path must be set for the file source", ErrInvalidConfig)
		}
	case SourceSheets:
		if c.RPESheetID == "" {
			return fmt.Errorf("%w: rpe_sheet_id must be set for the sheets source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown rpe_source %q", ErrInvalidConfig, c.RPESource)
	}
	if c.BandLow < 0 || c.BandHigh <= c.BandLow {
		return fmt.Errorf("%w: band thresholds need 0 <= band_low < band_high", ErrInvalidConfig)
	}
	if c.ReferenceTopN < 1 {
		return fmt.Errorf("%w: reference_top_n must be positive", ErrInvalidConfig)
	}
	if c.MaxWindowDays <= 0 {
		return fmt.Errorf("%w: max_window_days must be positive", ErrInvalidConfig)
	}
	if c.WindowSessions < 0 || c.CacheTTLSeconds < 0 || c.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("%w: window and intervals must not be negative", ErrInvalidConfig)
	}
	for _, name := range c.InverseMetricNames() {
		if _, ok := model.ParseMetric(name); !ok {
			return fmt.Errorf("%w: unknown inverse metric %q", ErrInvalidConfig, name)
		}
	}
	return nil
}
