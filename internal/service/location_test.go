package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

func TestLocationService_FindNearbyStores(t *testing.T) {
	svc := NewLocationService(newLocationRepo(t), fixedWeather{})

	tests := []struct {
		city      string
		wantFirst string
		wantLen   int
	}{
		{city: "Mumbai", wantFirst: "Ayurved Bhavan", wantLen: 3},
		{city: "new york city", wantFirst: "Ayurveda NYC", wantLen: 3},
		{city: "Los", wantFirst: "LA Ayurveda", wantLen: 3},
		{city: "DELHI", wantFirst: "Khari Baoli Herbs", wantLen: 3},
		{city: "Paris", wantLen: 0},
		{city: "", wantLen: 0},
		{city: "  ", wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			got := svc.FindNearbyStores(tt.city)
			require.NotNil(t, got)
			require.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got[0].Name)
			}
		})
	}
}

func TestLocationService_DetermineClimateType(t *testing.T) {
	svc := NewLocationService(newLocationRepo(t), fixedWeather{})

	tests := []struct {
		city, country string
		want          entities.ClimateType
	}{
		{"Mumbai", "India", entities.ClimateTropical},
		{"Delhi", "India", entities.ClimateArid},
		{"San Francisco", "United States", entities.ClimateCoastal},
		{"Denver", "United States", entities.ClimateMountain},
		{"London", "United Kingdom", entities.ClimateTemperate},
		{"", "", entities.ClimateTemperate},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.DetermineClimateType(tt.city, tt.country))
		})
	}
}

func TestLocationService_Fallbacks(t *testing.T) {
	svc := NewLocationService(newLocationRepo(t), fixedWeather{})

	temperate := svc.GetLocalHerbs(entities.ClimateTemperate)
	require.NotEmpty(t, temperate)
	assert.Equal(t, temperate, svc.GetLocalHerbs("polar"))
	assert.Equal(t, []string{"Brahmi", "Ashwagandha", "Tulsi", "Triphala"}, svc.GetLocalHerbs(entities.ClimateMountain))

	advice := svc.GetClimateAdvice(entities.WeatherTemperate)
	require.NotEmpty(t, advice.Suggestions)
	assert.Equal(t, advice, svc.GetClimateAdvice("stormy"))
}

func TestLocationService_GetWeatherRecommendations(t *testing.T) {
	tests := []struct {
		name    string
		weather entities.Weather
		want    entities.WeatherType
	}{
		{"hot", entities.Weather{Temperature: 31, Humidity: 90}, entities.WeatherHot},
		{"cold", entities.Weather{Temperature: 14, Humidity: 90}, entities.WeatherCold},
		{"humid", entities.Weather{Temperature: 25, Humidity: 71}, entities.WeatherHumid},
		{"dry", entities.Weather{Temperature: 25, Humidity: 29}, entities.WeatherDry},
		{"temperate edges", entities.Weather{Temperature: 30, Humidity: 70}, entities.WeatherTemperate},
		{"temperate low edges", entities.Weather{Temperature: 15, Humidity: 30}, entities.WeatherTemperate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLocationService(newLocationRepo(t), fixedWeather{weather: tt.weather})

			report, err := svc.GetWeatherRecommendations(context.Background(), "anywhere")
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Type)
			assert.Equal(t, svc.GetClimateAdvice(tt.want), report.Recommendations)
		})
	}
}

func TestLocationService_WeatherFailure(t *testing.T) {
	svc := NewLocationService(newLocationRepo(t), fixedWeather{err: errBoom})

	_, err := svc.GetWeatherRecommendations(context.Background(), "x")
	assert.ErrorIs(t, err, errBoom)
}
