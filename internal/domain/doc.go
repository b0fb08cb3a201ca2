// Package domain models National Weather Service (NWS) observation data and
// the daily consolidated dataset built from it.
//
// # Data Source
//
// All raw data comes from the public NWS API at https://api.weather.gov.
// For each configured region (a fixed lat/lon point) the collector resolves
// a grid point via /points/<lat>,<lon>, which yields the nearest observation
// station plus forecast, hourly-forecast, grid-forecast, and forecast-zone
// endpoints. The API requires a descriptive User-Agent header and expects
// roughly one request per second from unauthenticated clients.
//
// # Response Shapes
//
// Three distinct JSON shapes feed one flat record:
//
//	Current observation:  properties.<field>.value
//	  e.g. properties.temperature.value = 38.0 (degrees Celsius; the API
//	  reports SI units, wind speed in m/s, pressure in Pa).
//
//	Period forecast:      properties.periods[0].<field>
//	  The first period is "now"; temperature here is Fahrenheit and
//	  shortForecast/detailedForecast are free text.
//
//	Grid forecast:        properties.<name>.values[0].value
//	  Each named property holds a time-ordered list of
//	  {validTime, value} entries; only the first (current) entry is kept.
//	  Grid properties used: snowLevel, iceAccumulation,
//	  probabilityOfPrecipitation, maxTemperature, minTemperature,
//	  maxDaytimeUVIndex.
//
// Any of these may be partially or entirely absent; lookups degrade to the
// empty-value marker "" rather than failing, so one missing field never
// drops a region's record.
//
// # Dataset Format
//
// Records accumulate in one CSV object per UTC calendar day, named
// weather_data_<YYYY-MM-DD>.csv. The header matches [Columns] exactly and
// the column order never changes. Rows are unique by the composite key
// timestamp + "_" + region; within a day the dataset is append-only.
// Free-text fields are sanitized by [CleanValue] before serialization so a
// forecast containing commas, quotes, or newlines cannot corrupt the table.
//
// # Derived Fields
//
// temperature_fahrenheit is computed from the Celsius observation
// (F = C*9/5 + 32) and only when a Celsius value is present: an absent
// reading yields "", never 32. has_alerts is always exactly "Yes" or "No",
// based on whether the region's alert zone has at least one active alert
// feature.
package domain
