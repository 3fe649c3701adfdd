package entities

// ClimateType is a region category used to pick locally available herbs.
type ClimateType string

const (
	ClimateTropical  ClimateType = "tropical"
	ClimateTemperate ClimateType = "temperate"
	ClimateArid      ClimateType = "arid"
	ClimateCoastal   ClimateType = "coastal"
	ClimateMountain  ClimateType = "mountain"
)

// Valid reports whether c is one of the known climate types.
func (c ClimateType) Valid() bool {
	switch c {
	case ClimateTropical, ClimateTemperate, ClimateArid, ClimateCoastal, ClimateMountain:
		return true
	}
	return false
}

// WeatherType is the classification of a weather reading used to pick remedy advice.
type WeatherType string

const (
	WeatherHot       WeatherType = "hot"
	WeatherCold      WeatherType = "cold"
	WeatherHumid     WeatherType = "humid"
	WeatherDry       WeatherType = "dry"
	WeatherTemperate WeatherType = "temperate"
)

// Valid reports whether w is one of the known weather types.
func (w WeatherType) Valid() bool {
	switch w {
	case WeatherHot, WeatherCold, WeatherHumid, WeatherDry, WeatherTemperate:
		return true
	}
	return false
}

// ClassifyWeather maps a reading to a weather type. Rules are evaluated in order
// and the first match wins.
func ClassifyWeather(w Weather) WeatherType {
	switch {
	case w.Temperature > 30:
		return WeatherHot
	case w.Temperature < 15:
		return WeatherCold
	case w.Humidity > 70:
		return WeatherHumid
	case w.Humidity < 30:
		return WeatherDry
	default:
		return WeatherTemperate
	}
}

// Store is an Ayurvedic store listed in the directory.
type Store struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Rating  float64 `json:"rating"` // 0..5
}

// RemedyAdvice holds climate-based suggestions.
type RemedyAdvice struct {
	Suggestions []string `json:"suggestions"`
	Avoid       []string `json:"avoid"`
	Tips        string   `json:"tips"`
}

// Coordinates is a point reported by a geolocation provider.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Place is the result of reverse geocoding.
type Place struct {
	City    string
	Country string
	Region  string
}

// Location describes where the user is, as far as we could tell.
type Location struct {
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Region    string   `json:"region,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Weather is a single weather reading.
type Weather struct {
	Temperature int    `json:"temperature"` // degrees Celsius
	Humidity    int    `json:"humidity"`    // percent, 0..100
	Condition   string `json:"condition"`
}

// WeatherConditions lists the conditions a synthetic reading may report.
var WeatherConditions = []string{"sunny", "rainy", "cloudy", "hot", "cold"}

// LocationResult is the structured answer to a location query.
type LocationResult struct {
	Location        Location     `json:"location"`
	Stores          []Store      `json:"stores"`
	LocalHerbs      []string     `json:"local_herbs"`
	Climate         ClimateType  `json:"climate"`
	Weather         Weather      `json:"weather"`
	WeatherType     WeatherType  `json:"weather_type"`
	Recommendations RemedyAdvice `json:"recommendations"`
}
