// Package config defines service configuration structures and loading hooks.
package config

import (
	"strings"
	"time"
)

// Source kinds for the GPS and RPE tables.
const (
	SourceFile   = "file"
	SourceDrive  = "drive"
	SourceSheets = "sheets"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// GPSSource selects where session exports come from: file or drive.
	GPSSource string `koanf:"gps_source"`
	// GPSPath is the local CSV export used by the file source.
	GPSPath string `koanf:"gps_path"`
	// GPSDriveFileID is the shared-drive file holding the CSV export.
	GPSDriveFileID string `koanf:"gps_drive_file_id"`

	// RPESource selects where questionnaire answers come from: file or sheets.
	RPESource string `koanf:"rpe_source"`
	// RPEPath is the local CSV used by the file source.
	RPEPath string `koanf:"rpe_path"`
	// RPESheetID and RPESheetRange address the form response sheet.
	RPESheetID    string `koanf:"rpe_sheet_id"`
	RPESheetRange string `koanf:"rpe_sheet_range"`

	// GoogleCredentialsFile is a service-account JSON key for Drive and Sheets.
	GoogleCredentialsFile string `koanf:"google_credentials_file"`

	// CacheTTLSeconds bounds how long a fetched table is reused.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`
	// RefreshIntervalSeconds is the background reload period; 0 disables it.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// RPETimezoneOffsetHours shifts form submission timestamps.
	RPETimezoneOffsetHours int `koanf:"rpe_timezone_offset_hours"`

	// WindowSessions is how many session dates the default window spans back.
	WindowSessions int `koanf:"window_sessions"`
	// MaxWindowDays caps the calendar span of a requested report window.
	MaxWindowDays int `koanf:"max_window_days"`

	// BandLow and BandHigh are the percentage-of-reference thresholds.
	BandLow  float64 `koanf:"band_low"`
	BandHigh float64 `koanf:"band_high"`

	// ReferenceTopN is how many best values form the relative reference.
	ReferenceTopN int `koanf:"reference_top_n"`

	// InverseMetrics lists metrics where lower is better.
	InverseMetrics []string `koanf:"inverse_metrics"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		GPSSource:              SourceFile,
		GPSPath:                "data/gps.csv",
		RPESource:              SourceFile,
		RPEPath:                "data/rpe.csv",
		RPESheetRange:          "Form Responses 1!A:D",
		CacheTTLSeconds:        600,
		RefreshIntervalSeconds: 600,
		RPETimezoneOffsetHours: 1,
		WindowSessions:         7,
		MaxWindowDays:          366,
		BandLow:                40,
		BandHigh:               80,
		ReferenceTopN:          5,
		InverseMetrics:         []string{"mpe_avg_rec_time"},
	}
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// RefreshInterval returns RefreshIntervalSeconds as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// RPETimezoneOffset returns RPETimezoneOffsetHours as a duration.
func (c *Config) RPETimezoneOffset() time.Duration {
	return time.Duration(c.RPETimezoneOffsetHours) * time.Hour
}

// InverseMetricNames flattens InverseMetrics, splitting comma-separated
// entries as they arrive from the environment.
func (c *Config) InverseMetricNames() []string {
	var out []string
	for _, raw := range c.InverseMetrics {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
