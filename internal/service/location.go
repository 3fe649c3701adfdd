package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

// WeatherReport is a classified weather reading with matching advice.
type WeatherReport struct {
	Weather         entities.Weather
	Type            entities.WeatherType
	Recommendations entities.RemedyAdvice
}

// LocationService derives store, climate and weather recommendations for a place.
type LocationService struct {
	src     LocationSource
	weather WeatherProvider
}

// NewLocationService creates a new LocationService.
func NewLocationService(src LocationSource, weather WeatherProvider) *LocationService {
	return &LocationService{
		src:     src,
		weather: weather,
	}
}

// FindNearbyStores returns the stores of the first directory city that
// contains the given city or is contained by it, ignoring case.
func (s *LocationService) FindNearbyStores(city string) []entities.Store {
	c := strings.ToLower(strings.TrimSpace(city))
	if c == "" {
		return []entities.Store{}
	}

	for _, entry := range s.src.Directory() {
		key := strings.ToLower(entry.City)
		if strings.Contains(key, c) || strings.Contains(c, key) {
			return append([]entities.Store(nil), entry.Stores...)
		}
	}

	return []entities.Store{}
}

// DetermineClimateType classifies a place by the region lists, in their
// declared order. Places on no list are temperate.
func (s *LocationService) DetermineClimateType(city, country string) entities.ClimateType {
	loc := strings.ToLower(city + " " + country)

	for _, region := range s.src.Regions() {
		for _, place := range region.Places {
			if strings.Contains(loc, strings.ToLower(place)) {
				return region.Climate
			}
		}
	}

	return entities.ClimateTemperate
}

// GetLocalHerbs returns herbs that grow well in a climate.
// Unknown climates get the temperate list.
func (s *LocationService) GetLocalHerbs(climate entities.ClimateType) []string {
	if herbs, ok := s.src.RegionalHerbs(climate); ok {
		return herbs
	}
	herbs, _ := s.src.RegionalHerbs(entities.ClimateTemperate)
	return herbs
}

// GetClimateAdvice returns advice for a weather type.
// Unknown types get the temperate advice.
func (s *LocationService) GetClimateAdvice(weather entities.WeatherType) entities.RemedyAdvice {
	if advice, ok := s.src.ClimateAdvice(weather); ok {
		return advice
	}
	advice, _ := s.src.ClimateAdvice(entities.WeatherTemperate)
	return advice
}

// GetWeatherRecommendations reads the current weather for city and picks advice for it.
func (s *LocationService) GetWeatherRecommendations(ctx context.Context, city string) (*WeatherReport, error) {
	w, err := s.weather.CurrentWeather(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}

	wt := entities.ClassifyWeather(w)

	return &WeatherReport{
		Weather:         w,
		Type:            wt,
		Recommendations: s.GetClimateAdvice(wt),
	}, nil
}
