package service

import (
	"context"
	"time"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/repository"
)

// HerbSource supplies herb records and the alias table.
type HerbSource interface {
	All() []entities.Herb
	Aliases() []entities.HerbAlias
}

// LocationSource supplies the static location knowledge.
type LocationSource interface {
	Directory() []repository.CityStores
	Regions() []repository.ClimateRegion
	RegionalHerbs(climate entities.ClimateType) ([]string, bool)
	ClimateAdvice(weather entities.WeatherType) (entities.RemedyAdvice, bool)
}

// WeatherProvider reports the current weather for a city.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string) (entities.Weather, error)
}

// GeolocationProvider reports where the current user is.
type GeolocationProvider interface {
	Locate(ctx context.Context) (entities.Coordinates, error)
}

// ReverseGeocoder turns coordinates into a named place.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, c entities.Coordinates) (entities.Place, error)
}

// RemedyClient forwards symptom queries to the remedy service.
type RemedyClient interface {
	QueryRemedy(ctx context.Context, text string) (*entities.RemedyResult, error)
}

// QuizOracle serves quiz questions and grades answers.
type QuizOracle interface {
	StartQuiz(ctx context.Context) (*entities.QuizStart, error)
	SubmitAnswer(ctx context.Context, questionID int, option string) (*entities.QuizAnswer, error)
}

// HerbBrowser lists herb summaries page by page.
type HerbBrowser interface {
	ListHerbs(ctx context.Context, skip, limit int) ([]entities.HerbSummary, error)
}

// TranscriptRepository persists chat transcripts.
type TranscriptRepository interface {
	Append(ctx context.Context, msg *entities.TranscriptMessage) error
	List(ctx context.Context, chatID int64, limit int) ([]*entities.TranscriptMessage, error)
	Clear(ctx context.Context, chatID int64) error
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// QuizResultRepository persists completed quiz scores.
type QuizResultRepository interface {
	Save(ctx context.Context, r *entities.QuizResult) error
	ListByChat(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error)
}
