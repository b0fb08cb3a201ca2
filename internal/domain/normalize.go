package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BuildRecord flattens one region's observation bundle into a WeatherRecord.
// Every field is populated; anything missing or malformed in the bundle
// degrades to "" rather than failing. The function is total: no bundle
// shape makes it panic.
func BuildRecord(bundle ObservationBundle, region string) WeatherRecord {
	current := asMap(nestedValue(bundle.Current, nil, "properties"))
	forecast := firstForecastPeriod(bundle.Forecast)
	grid := asMap(nestedValue(bundle.Grid, nil, "properties"))

	return WeatherRecord{
		Timestamp:                clock.Now().UTC().Format(TimestampLayout),
		Region:                   region,
		TemperatureCelsius:       formatNumber(nestedValue(current, "", "temperature", "value")),
		TemperatureFahrenheit:    fahrenheitFrom(nestedValue(current, nil, "temperature", "value")),
		Humidity:                 formatNumber(nestedValue(current, "", "relativeHumidity", "value")),
		WindSpeedMS:              formatNumber(nestedValue(current, "", "windSpeed", "value")),
		WindDirection:            formatNumber(nestedValue(current, "", "windDirection", "value")),
		BarometricPressure:       formatNumber(nestedValue(current, "", "barometricPressure", "value")),
		Visibility:               formatNumber(nestedValue(current, "", "visibility", "value")),
		DewPoint:                 formatNumber(nestedValue(current, "", "dewpoint", "value")),
		HeatIndex:                formatNumber(nestedValue(current, "", "heatIndex", "value")),
		WindChill:                formatNumber(nestedValue(current, "", "windChill", "value")),
		PresentWeather:           stringValue(nestedValue(current, "", "textDescription")),
		ForecastTemp:             formatNumber(nestedValue(forecast, "", "temperature")),
		ShortForecast:            stringValue(nestedValue(forecast, "", "shortForecast")),
		DetailedForecast:         cleanDetailedForecast(nestedValue(forecast, "", "detailedForecast")),
		SnowLevel:                formatNumber(gridFirstValue(grid, "snowLevel")),
		IceAccumulation:          formatNumber(gridFirstValue(grid, "iceAccumulation")),
		PrecipitationProbability: formatNumber(gridFirstValue(grid, "probabilityOfPrecipitation")),
		MaxTemperature:           formatNumber(gridFirstValue(grid, "maxTemperature")),
		MinTemperature:           formatNumber(gridFirstValue(grid, "minTemperature")),
		UVIndex:                  formatNumber(gridFirstValue(grid, "maxDaytimeUVIndex")),
		HasAlerts:                hasAlerts(bundle.Alerts),
	}
}

// nestedValue walks keys through arbitrarily nested JSON maps. Any missing
// key, nil value, or non-map intermediate short-circuits to def.
func nestedValue(data any, def any, keys ...string) any {
	cur := data
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return def
		}
		cur = m[key]
	}
	if cur == nil {
		return def
	}
	return cur
}

// gridFirstValue extracts the first entry's value from a grid time-series
// property (properties.<name>.values[0].value), or "" when the property,
// its values list, or the entry value is missing or malformed.
func gridFirstValue(grid map[string]any, property string) any {
	prop, ok := grid[property].(map[string]any)
	if !ok {
		return ""
	}
	values, ok := prop["values"].([]any)
	if !ok || len(values) == 0 {
		return ""
	}
	entry, ok := values[0].(map[string]any)
	if !ok {
		return ""
	}
	if v := entry["value"]; v != nil {
		return v
	}
	return ""
}

// firstForecastPeriod returns properties.periods[0] of a period forecast,
// or an empty map when periods are absent.
func firstForecastPeriod(forecast map[string]any) map[string]any {
	periods, ok := nestedValue(forecast, nil, "properties", "periods").([]any)
	if !ok || len(periods) == 0 {
		return map[string]any{}
	}
	return asMap(periods[0])
}

// formatNumber renders numeric values compactly: integral floats as
// integers ("38"), fractional floats with their fraction ("71.6").
// Non-numeric values pass through unchanged; nil and "" stay "".
func formatNumber(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		return formatFloat(n)
	case int:
		return strconv.Itoa(n)
	case string:
		if n == "" {
			return ""
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return n
		}
		return formatFloat(f)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// fahrenheitFrom converts a Celsius observation value to Fahrenheit.
// It returns "" unless a real Celsius value is present: a missing reading
// must produce an empty field, not the converted default (32).
func fahrenheitFrom(celsius any) string {
	var c float64
	switch v := celsius.(type) {
	case float64:
		c = v
	case int:
		c = float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ""
		}
		c = f
	default:
		return ""
	}
	return formatFloat(c*9/5 + 32)
}

// hasAlerts reports "Yes" when the alerts collection has at least one
// feature, "No" otherwise. Never empty.
func hasAlerts(alerts map[string]any) string {
	features, ok := alerts["features"].([]any)
	if ok && len(features) > 0 {
		return "Yes"
	}
	return "No"
}

// cleanDetailedForecast strips wrapping quotes and converts embedded commas
// to pipes. Detailed forecasts are prose and the only field that reliably
// contains commas; rewriting them keeps the row readable in plain-text
// tooling before the general cleaner quotes it.
func cleanDetailedForecast(v any) string {
	s := stringValue(v)
	s = strings.Trim(s, `"`)
	return strings.ReplaceAll(s, ",", "|")
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
