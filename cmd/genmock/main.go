// Command genmock generates mock NWS observation bundles and the expected
// consolidated dataset CSV. It uses the actual domain package so the
// expected output matches real collector behavior, which makes the
// fixtures usable as golden files by downstream test suites.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-collector/internal/domain"
)

// baseTime is the frozen collection instant for all generated fixtures.
var baseTime = time.Date(2026, time.January, 15, 18, 0, 0, 0, time.UTC)

// mockRegion pairs a region name with synthetic API responses covering a
// distinct shape: a full observation, a sparse one, and one with alerts.
type mockRegion struct {
	name   string
	bundle domain.ObservationBundle
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "output directory for fixture files")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Freeze the clock so record timestamps and the snapshot key reproduce.
	domain.SetClock(clockwork.NewFakeClockAt(baseTime))
	defer domain.SetClock(nil)

	regions := []mockRegion{
		{name: "Phoenix_AZ", bundle: fullBundle()},
		{name: "Anchorage_AK", bundle: sparseBundle()},
		{name: "Miami_FL", bundle: alertBundle()},
	}

	var dataset []byte
	for _, r := range regions {
		if err := writeJSON(filepath.Join(*outDir, "nws_bundle_"+r.name+".json"), bundleDoc(r.bundle)); err != nil {
			return fmt.Errorf("writing bundle for %s: %w", r.name, err)
		}

		record := domain.BuildRecord(r.bundle, r.name)
		result, err := domain.MergeRecord(dataset, &record)
		if err != nil {
			return fmt.Errorf("merging record for %s: %w", r.name, err)
		}
		dataset = result.Data
		log.Printf("%s: key=%s appended=%v", r.name, record.Key(), result.Appended)
	}

	csvPath := filepath.Join(*outDir, domain.SnapshotKey(baseTime))
	if err := os.WriteFile(csvPath, dataset, 0o644); err != nil {
		return fmt.Errorf("writing expected dataset: %w", err)
	}
	log.Printf("wrote expected dataset: %s", csvPath)
	return nil
}

// fullBundle mimics a hot desert afternoon with every field populated.
func fullBundle() domain.ObservationBundle {
	return domain.ObservationBundle{
		Current: map[string]any{
			"properties": map[string]any{
				"temperature":        obsValue(38.0),
				"relativeHumidity":   obsValue(10.0),
				"windSpeed":          obsValue(4.6),
				"windDirection":      obsValue(220.0),
				"barometricPressure": obsValue(100930.0),
				"visibility":         obsValue(16090.0),
				"dewpoint":           obsValue(2.2),
				"heatIndex":          obsValue(36.7),
				"windChill":          nil,
				"textDescription":    "Sunny",
			},
		},
		Forecast: map[string]any{
			"properties": map[string]any{
				"periods": []any{map[string]any{
					"temperature":      float64(104),
					"shortForecast":    "Sunny",
					"detailedForecast": "Sunny and hot, with a high near 104. South wind around 10 mph.",
				}},
			},
		},
		Grid: map[string]any{
			"properties": map[string]any{
				"maxTemperature":             gridSeries(40.6),
				"minTemperature":             gridSeries(27.2),
				"probabilityOfPrecipitation": gridSeries(0.0),
				"maxDaytimeUVIndex":          gridSeries(9.0),
			},
		},
		Alerts: map[string]any{"features": []any{}},
	}
}

// sparseBundle mimics a station with only the mandatory observation and an
// empty set of secondary documents.
func sparseBundle() domain.ObservationBundle {
	return domain.ObservationBundle{
		Current: map[string]any{
			"properties": map[string]any{
				"temperature":     obsValue(-18.3),
				"textDescription": "Light Snow",
			},
		},
		Hourly:   map[string]any{},
		Forecast: map[string]any{},
		Grid:     map[string]any{},
		Alerts:   map[string]any{},
	}
}

// alertBundle mimics tropical conditions with an active alert and a
// comma-heavy detailed forecast.
func alertBundle() domain.ObservationBundle {
	return domain.ObservationBundle{
		Current: map[string]any{
			"properties": map[string]any{
				"temperature":      obsValue(30.6),
				"relativeHumidity": obsValue(78.0),
				"windSpeed":        obsValue(9.3),
				"textDescription":  "Partly Cloudy",
			},
		},
		Forecast: map[string]any{
			"properties": map[string]any{
				"periods": []any{map[string]any{
					"temperature":      float64(88),
					"shortForecast":    "Scattered Showers",
					"detailedForecast": "Scattered showers, mainly after 2pm, with gusty winds near the coast.",
				}},
			},
		},
		Grid: map[string]any{
			"properties": map[string]any{
				"probabilityOfPrecipitation": gridSeries(60.0),
			},
		},
		Alerts: map[string]any{
			"features": []any{map[string]any{
				"properties": map[string]any{"event": "Rip Current Statement"},
			}},
		},
	}
}

func obsValue(v float64) map[string]any {
	return map[string]any{"value": v, "unitCode": "wmoUnit:degC"}
}

func gridSeries(v float64) map[string]any {
	return map[string]any{
		"values": []any{map[string]any{
			"validTime": baseTime.Format(time.RFC3339) + "/PT6H",
			"value":     v,
		}},
	}
}

// bundleDoc lays a bundle out the way the collector receives it, one
// top-level key per API document.
func bundleDoc(b domain.ObservationBundle) map[string]any {
	return map[string]any{
		"current":  b.Current,
		"hourly":   b.Hourly,
		"forecast": b.Forecast,
		"grid":     b.Grid,
		"alerts":   b.Alerts,
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
