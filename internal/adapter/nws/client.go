package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/weather-collector/internal/domain"
)

// Client talks to the National Weather Service API (api.weather.gov).
// Every request carries the configured User-Agent: the NWS API rejects
// anonymous clients and throttles aggressive ones, so the collector also
// paces its requests (see pipeline.Pipeline).
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an NWS API client with a fixed per-request timeout.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ResolveStation resolves a region's coordinates to its forecast endpoints
// and nearest observation station. Both the /points lookup and the station
// listing must succeed; a failure here aborts the region.
func (c *Client) ResolveStation(ctx context.Context, region domain.Region) (domain.StationEndpoints, error) {
	pointsURL := fmt.Sprintf("%s/points/%s,%s", c.baseURL, region.Lat, region.Lon)

	var point pointResponse
	if err := c.getJSON(ctx, pointsURL, &point); err != nil {
		return domain.StationEndpoints{}, fmt.Errorf("resolve grid point: %w", err)
	}

	endpoints := domain.StationEndpoints{
		Forecast:       point.Properties.Forecast,
		ForecastHourly: point.Properties.ForecastHourly,
		ForecastGrid:   point.Properties.ForecastGridData,
		ForecastZone:   zoneID(point.Properties.ForecastZone),
	}

	var stations stationsResponse
	if err := c.getJSON(ctx, point.Properties.ObservationStations, &stations); err != nil {
		return domain.StationEndpoints{}, fmt.Errorf("list stations: %w", err)
	}
	if len(stations.Features) == 0 {
		return domain.StationEndpoints{}, errors.New("no observation stations found for grid point")
	}

	endpoints.StationID = stations.Features[0].Properties.StationIdentifier
	return endpoints, nil
}

// LatestObservation fetches the most recent observation for a station.
func (c *Client) LatestObservation(ctx context.Context, stationID string) (map[string]any, error) {
	u := fmt.Sprintf("%s/stations/%s/observations/latest", c.baseURL, stationID)
	return c.getObject(ctx, u)
}

// FetchForecast fetches one of the forecast documents (hourly, period, or
// grid) by the endpoint URL resolved from the grid point.
func (c *Client) FetchForecast(ctx context.Context, url string) (map[string]any, error) {
	return c.getObject(ctx, url)
}

// ActiveAlerts fetches the active alerts for a forecast zone.
func (c *Client) ActiveAlerts(ctx context.Context, zone string) (map[string]any, error) {
	u := fmt.Sprintf("%s/alerts/active/zone/%s", c.baseURL, zone)
	return c.getObject(ctx, u)
}

func (c *Client) getObject(ctx context.Context, url string) (map[string]any, error) {
	var out map[string]any
	if err := c.getJSON(ctx, url, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nws request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("nws API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// zoneID extracts the zone identifier from a forecastZone URL,
// e.g. "https://api.weather.gov/zones/forecast/MAZ017" -> "MAZ017".
func zoneID(zoneURL string) string {
	if i := strings.LastIndex(zoneURL, "/"); i >= 0 {
		return zoneURL[i+1:]
	}
	return zoneURL
}

// NWS API response types, limited to the fields the collector reads.

type pointResponse struct {
	Properties struct {
		Forecast            string `json:"forecast"`
		ForecastHourly      string `json:"forecastHourly"`
		ForecastGridData    string `json:"forecastGridData"`
		ForecastZone        string `json:"forecastZone"`
		ObservationStations string `json:"observationStations"`
	} `json:"properties"`
}

type stationsResponse struct {
	Features []struct {
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
		} `json:"properties"`
	} `json:"features"`
}
