package geo

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

// RandomWeather produces synthetic readings: temperature 10..49 °C,
// humidity 0..99 % and a random condition. It ignores the city.
type RandomWeather struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomWeather creates a generator seeded with seed.
func NewRandomWeather(seed uint64) *RandomWeather {
	return &RandomWeather{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// CurrentWeather implements service.WeatherProvider.
func (w *RandomWeather) CurrentWeather(ctx context.Context, _ string) (entities.Weather, error) {
	if err := ctx.Err(); err != nil {
		return entities.Weather{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return entities.Weather{
		Temperature: 10 + w.rnd.IntN(40),
		Humidity:    w.rnd.IntN(100),
		Condition:   entities.WeatherConditions[w.rnd.IntN(len(entities.WeatherConditions))],
	}, nil
}
