package repository

import (
	"fmt"

	"github.com/aliskhannn/ayurbot/assets"
	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

// CityStores is one entry of the store directory.
type CityStores struct {
	City   string           `json:"city"`
	Stores []entities.Store `json:"stores"`
}

// ClimateRegion lists the places that belong to a climate type.
type ClimateRegion struct {
	Climate entities.ClimateType `json:"climate"`
	Places  []string             `json:"places"`
}

// LocationRepository holds the static location knowledge: store directory,
// climate regions, regional herbs and climate advice.
type LocationRepository struct {
	stores   []CityStores
	regions  []ClimateRegion
	herbs    map[entities.ClimateType][]string
	remedies map[entities.WeatherType]entities.RemedyAdvice
}

// NewLocationRepository loads location knowledge from the JSON file at path,
// or from the embedded dataset when path is empty.
func NewLocationRepository(path string) (*LocationRepository, error) {
	var wrapper struct {
		Stores   []CityStores                                   `json:"stores"`
		Regions  []ClimateRegion                                `json:"regions"`
		Herbs    map[entities.ClimateType][]string              `json:"regional_herbs"`
		Remedies map[entities.WeatherType]entities.RemedyAdvice `json:"climate_remedies"`
	}
	if err := readJSON(path, assets.LocationsFile, &wrapper); err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}

	for _, cs := range wrapper.Stores {
		for _, s := range cs.Stores {
			if s.Rating < 0 || s.Rating > 5 {
				return nil, fmt.Errorf("store %q in %s: rating %.1f out of range", s.Name, cs.City, s.Rating)
			}
		}
	}
	for _, r := range wrapper.Regions {
		if !r.Climate.Valid() {
			return nil, fmt.Errorf("unknown climate type %q", r.Climate)
		}
	}
	if _, ok := wrapper.Herbs[entities.ClimateTemperate]; !ok {
		return nil, fmt.Errorf("regional herbs: missing %q entry", entities.ClimateTemperate)
	}
	if _, ok := wrapper.Remedies[entities.WeatherTemperate]; !ok {
		return nil, fmt.Errorf("climate remedies: missing %q entry", entities.WeatherTemperate)
	}

	return &LocationRepository{
		stores:   wrapper.Stores,
		regions:  wrapper.Regions,
		herbs:    wrapper.Herbs,
		remedies: wrapper.Remedies,
	}, nil
}

// Directory returns the store directory in declared order.
func (r *LocationRepository) Directory() []CityStores {
	return r.stores
}

// Regions returns the climate regions in declared order.
func (r *LocationRepository) Regions() []ClimateRegion {
	return r.regions
}

// RegionalHerbs returns the herb names for a climate and whether it was found.
func (r *LocationRepository) RegionalHerbs(climate entities.ClimateType) ([]string, bool) {
	herbs, ok := r.herbs[climate]
	return append([]string(nil), herbs...), ok
}

// ClimateAdvice returns the advice for a weather type and whether it was found.
func (r *LocationRepository) ClimateAdvice(weather entities.WeatherType) (entities.RemedyAdvice, bool) {
	advice, ok := r.remedies[weather]
	return advice, ok
}
