package main

import (
	"context"
	"fmt"

	"github.com/askoki/orijent-soccer-analytics/internal/adapters/source"
	"github.com/askoki/orijent-soccer-analytics/internal/config"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/bands"
	"github.com/askoki/orijent-soccer-analytics/internal/domain/model"
)

// buildSource picks the GPS and RPE backends named by cfg and puts the
// TTL cache in front of them.
func buildSource(ctx context.Context, cfg *config.Config) (*source.Cached, error) {
	var pair source.Pair

	switch cfg.GPSSource {
	case config.SourceDrive:
		gps, err := source.NewDriveGPS(ctx, cfg.GPSDriveFileID, source.ClientOptions(cfg.GoogleCredentialsFile)...)
		if err != nil {
			return nil, err
		}
		pair.GPS = gps
	case config.SourceFile:
		pair.GPS = source.FileGPS{Path: cfg.GPSPath}
	default:
		return nil, fmt.Errorf("%w: unknown gps_source %q", config.ErrInvalidConfig, cfg.GPSSource)
	}

	switch cfg.RPESource {
	case config.SourceSheets:
		rpe, err := source.NewSheetsRPE(ctx, cfg.RPESheetID, cfg.RPESheetRange, cfg.RPETimezoneOffset(),
			source.ClientOptions(cfg.GoogleCredentialsFile)...)
		if err != nil {
			return nil, err
		}
		pair.RPE = rpe
	case config.SourceFile:
		pair.RPE = source.FileRPE{Path: cfg.RPEPath, Offset: cfg.RPETimezoneOffset()}
	default:
		return nil, fmt.Errorf("%w: unknown rpe_source %q", config.ErrInvalidConfig, cfg.RPESource)
	}

	return source.NewCached(pair, cfg.CacheTTL()), nil
}

// buildClassifier applies the configured thresholds and inverse metrics.
func buildClassifier(cfg *config.Config) (*bands.Classifier, error) {
	var inverse []model.Metric
	for _, name := range cfg.InverseMetricNames() {
		m, ok := model.ParseMetric(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown inverse metric %q", config.ErrInvalidConfig, name)
		}
		inverse = append(inverse, m)
	}
	return bands.NewClassifier(
		bands.WithThresholds(cfg.BandLow, cfg.BandHigh),
		bands.WithInverseMetrics(inverse...),
	), nil
}
