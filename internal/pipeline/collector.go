package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-collector/internal/domain"
	"github.com/couchcryptid/weather-collector/internal/observability"
)

// Source is the NWS API surface the collector depends on.
type Source interface {
	ResolveStation(ctx context.Context, region domain.Region) (domain.StationEndpoints, error)
	LatestObservation(ctx context.Context, stationID string) (map[string]any, error)
	FetchForecast(ctx context.Context, url string) (map[string]any, error)
	ActiveAlerts(ctx context.Context, zone string) (map[string]any, error)
}

// RegionCollector assembles one region's raw observation bundle and
// normalizes it into a record.
//
// Failure semantics mirror the endpoints' importance: station resolution
// and the current observation are mandatory and abort the region, while
// the forecast documents and alerts degrade to empty data so a flaky
// secondary endpoint never costs a record.
type RegionCollector struct {
	source  Source
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCollector creates a RegionCollector.
func NewCollector(source Source, logger *slog.Logger, metrics *observability.Metrics) *RegionCollector {
	return &RegionCollector{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Collect fetches and normalizes one region. The returned record always
// has every field populated.
func (c *RegionCollector) Collect(ctx context.Context, region domain.Region) (domain.WeatherRecord, error) {
	endpoints, err := c.source.ResolveStation(ctx, region)
	if err != nil {
		return domain.WeatherRecord{}, fmt.Errorf("resolve station: %w", err)
	}

	current, err := c.source.LatestObservation(ctx, endpoints.StationID)
	if err != nil {
		return domain.WeatherRecord{}, fmt.Errorf("latest observation for %s: %w", endpoints.StationID, err)
	}

	bundle := domain.ObservationBundle{
		Current:  current,
		Hourly:   c.fetchForecast(ctx, region, "hourly", endpoints.ForecastHourly),
		Forecast: c.fetchForecast(ctx, region, "forecast", endpoints.Forecast),
		Grid:     c.fetchForecast(ctx, region, "grid", endpoints.ForecastGrid),
		Alerts:   c.fetchAlerts(ctx, region, endpoints.ForecastZone),
	}

	return domain.BuildRecord(bundle, region.Name), nil
}

// fetchForecast fetches a secondary forecast document, degrading to an
// empty document on any failure.
func (c *RegionCollector) fetchForecast(ctx context.Context, region domain.Region, endpoint, url string) map[string]any {
	if url == "" {
		return map[string]any{}
	}
	doc, err := c.source.FetchForecast(ctx, url)
	if err != nil {
		c.logger.Warn("forecast fetch failed, continuing with empty data",
			"region", region.Name, "endpoint", endpoint, "error", err)
		c.metrics.FetchErrors.WithLabelValues(endpoint).Inc()
		return map[string]any{}
	}
	return doc
}

// fetchAlerts fetches the region's active alerts, degrading to none on any
// failure. A failed alert fetch therefore reads as has_alerts="No".
func (c *RegionCollector) fetchAlerts(ctx context.Context, region domain.Region, zone string) map[string]any {
	if zone == "" {
		return map[string]any{}
	}
	alerts, err := c.source.ActiveAlerts(ctx, zone)
	if err != nil {
		c.logger.Warn("alerts fetch failed, continuing without alerts",
			"region", region.Name, "zone", zone, "error", err)
		c.metrics.FetchErrors.WithLabelValues("alerts").Inc()
		return map[string]any{}
	}
	return alerts
}
