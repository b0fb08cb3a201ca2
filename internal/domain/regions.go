package domain

// Region is a fixed named geographic point polled for observations.
// Coordinates stay strings: they are only ever interpolated into NWS
// /points URLs, and reformatting them would change the API's grid lookup.
type Region struct {
	Name        string
	Lat         string
	Lon         string
	Description string
}

// DefaultRegions is the fixed polling list, chosen to cover distinct US
// climate regimes. Order matters: regions are collected in this order and
// the pacing delay applies between consecutive entries.
var DefaultRegions = []Region{
	// Northeast (varied seasons, coastal effects)
	{Name: "UMass_Dartmouth", Lat: "41.6297", Lon: "-71.0068", Description: "Base location - varied seasonal weather"},
	{Name: "NYC_Central_Park", Lat: "40.7829", Lon: "-73.9654", Description: "Urban heat island, coastal effects"},
	{Name: "Mount_Washington_NH", Lat: "44.2706", Lon: "-71.3033", Description: "Extreme wind, alpine conditions"},

	// Southeast (tropical systems, severe weather)
	{Name: "Miami_FL", Lat: "25.7617", Lon: "-80.1918", Description: "Tropical weather, hurricanes"},
	{Name: "New_Orleans_LA", Lat: "29.9511", Lon: "-90.0715", Description: "Gulf Coast weather, high humidity"},

	// Midwest (severe weather corridor)
	{Name: "Oklahoma_City_OK", Lat: "35.4676", Lon: "-97.5164", Description: "Tornado alley, severe storms"},
	{Name: "Chicago_IL", Lat: "41.8781", Lon: "-87.6298", Description: "Lake effect weather"},

	// Mountain regions (elevation effects)
	{Name: "Denver_CO", Lat: "39.7392", Lon: "-104.9903", Description: "High altitude, mountain weather"},
	{Name: "Salt_Lake_City_UT", Lat: "40.7608", Lon: "-111.8910", Description: "Lake effect snow"},

	// West Coast (marine influence)
	{Name: "Seattle_WA", Lat: "47.6062", Lon: "-122.3321", Description: "Marine climate, persistent clouds"},
	{Name: "San_Francisco_CA", Lat: "37.7749", Lon: "-122.4194", Description: "Marine layer, microclimate"},

	// Desert Southwest
	{Name: "Phoenix_AZ", Lat: "33.4484", Lon: "-112.0740", Description: "Extreme heat, monsoon"},

	// Alaska (extreme conditions)
	{Name: "Anchorage_AK", Lat: "61.2181", Lon: "-149.9003", Description: "Subarctic conditions"},

	// Hawaii (tropical patterns)
	{Name: "Honolulu_HI", Lat: "21.3069", Lon: "-157.8583", Description: "Tropical climate"},
}
