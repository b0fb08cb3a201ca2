package domain

import "time"

// TimestampLayout is the wall-clock format used for the record timestamp
// and the dedup key. Second precision; two polls in the same second for the
// same region collapse into one row.
const TimestampLayout = "2006-01-02 15:04:05"

// columns is the canonical dataset schema. Order is fixed: it defines both
// the CSV header and the cell order of every row, and must never be
// reordered once datasets exist.
var columns = []string{
	"timestamp",
	"region",
	"temperature_celsius",
	"temperature_fahrenheit",
	"humidity",
	"wind_speed_ms",
	"wind_direction",
	"barometric_pressure",
	"visibility",
	"dew_point",
	"heat_index",
	"wind_chill",
	"present_weather",
	"forecast_temp",
	"short_forecast",
	"detailed_forecast",
	"snow_level",
	"ice_accumulation",
	"precipitation_probability",
	"max_temperature",
	"min_temperature",
	"uv_index",
	"has_alerts",
}

// Columns returns the dataset column names in schema order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// WeatherRecord is one flattened observation for one region at one poll.
// Every field is always present; "" is the empty-value marker.
type WeatherRecord struct {
	Timestamp                string
	Region                   string
	TemperatureCelsius       string
	TemperatureFahrenheit    string
	Humidity                 string
	WindSpeedMS              string
	WindDirection            string
	BarometricPressure       string
	Visibility               string
	DewPoint                 string
	HeatIndex                string
	WindChill                string
	PresentWeather           string
	ForecastTemp             string
	ShortForecast            string
	DetailedForecast         string
	SnowLevel                string
	IceAccumulation          string
	PrecipitationProbability string
	MaxTemperature           string
	MinTemperature           string
	UVIndex                  string
	HasAlerts                string
}

// Key returns the composite dedup key identifying this record within a
// daily dataset.
func (r *WeatherRecord) Key() string {
	return r.Timestamp + "_" + r.Region
}

// FieldMap returns the record as a column-name-to-value map, for callers
// that serialize records outside the dataset format.
func (r *WeatherRecord) FieldMap() map[string]string {
	fields := r.fields()
	out := make(map[string]string, len(columns))
	for _, col := range columns {
		out[col] = *fields[col]
	}
	return out
}

// fields maps column names to their backing struct fields, in no
// particular order. Row assembly goes through columns for ordering.
func (r *WeatherRecord) fields() map[string]*string {
	return map[string]*string{
		"timestamp":                 &r.Timestamp,
		"region":                    &r.Region,
		"temperature_celsius":       &r.TemperatureCelsius,
		"temperature_fahrenheit":    &r.TemperatureFahrenheit,
		"humidity":                  &r.Humidity,
		"wind_speed_ms":             &r.WindSpeedMS,
		"wind_direction":            &r.WindDirection,
		"barometric_pressure":       &r.BarometricPressure,
		"visibility":                &r.Visibility,
		"dew_point":                 &r.DewPoint,
		"heat_index":                &r.HeatIndex,
		"wind_chill":                &r.WindChill,
		"present_weather":           &r.PresentWeather,
		"forecast_temp":             &r.ForecastTemp,
		"short_forecast":            &r.ShortForecast,
		"detailed_forecast":         &r.DetailedForecast,
		"snow_level":                &r.SnowLevel,
		"ice_accumulation":          &r.IceAccumulation,
		"precipitation_probability": &r.PrecipitationProbability,
		"max_temperature":           &r.MaxTemperature,
		"min_temperature":           &r.MinTemperature,
		"uv_index":                  &r.UVIndex,
		"has_alerts":                &r.HasAlerts,
	}
}

// row returns the record's cell values in schema order.
func (r *WeatherRecord) row() []string {
	fields := r.fields()
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = *fields[col]
	}
	return out
}

// ObservationBundle holds the raw NWS API responses for one region and one
// poll cycle. It is transient: built by the collector, consumed by
// BuildRecord, never persisted.
type ObservationBundle struct {
	Current  map[string]any
	Hourly   map[string]any
	Forecast map[string]any
	Grid     map[string]any
	Alerts   map[string]any
}

// StationEndpoints holds the per-region NWS endpoints resolved from the
// /points lookup plus the nearest station identifier.
type StationEndpoints struct {
	StationID      string
	Forecast       string
	ForecastHourly string
	ForecastGrid   string
	ForecastZone   string
}

// RegionFailure records one region that could not be collected this run.
type RegionFailure struct {
	Region string `json:"region"`
	Error  string `json:"error"`
}

// RunSummary is the final status payload of one collection run.
type RunSummary struct {
	RunID             string          `json:"run_id"`
	ExecutionStart    time.Time       `json:"execution_start"`
	ExecutionEnd      time.Time       `json:"execution_end"`
	ProcessedCount    int             `json:"processed_count"`
	FailedCount       int             `json:"failed_count"`
	SuccessfulRegions []string        `json:"successful_regions"`
	FailedRegions     []RegionFailure `json:"failed_regions"`
}
