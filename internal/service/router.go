package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const (
	// LocationErrorMessage is shown when a location answer could not be assembled.
	LocationErrorMessage = "Unable to access location. Please enable location services or manually specify your city."
	// RemedyUnavailableMessage is shown when the remedy service cannot be reached.
	RemedyUnavailableMessage = "Sorry, the remedy service is unavailable right now. Please try again later."

	quizStartCommand       = "start quiz"
	DefaultLocationTimeout = 10 * time.Second
	unknownPlace           = "Unknown"
)

var ErrUnknownIntent = errors.New("unknown intent")

var locationKeywords = []string{
	"near me", "nearby", "find stores", "ayurvedic stores", "herb shops",
	"where to buy", "local availability", "in my area", "around me",
	"climate", "weather", "seasonal", "regional", "local herbs",
}

// Coordinates reported when the user's position is unknown.
var (
	fallbackLatitude  = 40.7128
	fallbackLongitude = -74.0060
	fallbackCity      = "New York"
	fallbackCountry   = "United States"
)

// IntentRouter classifies user messages and produces structured responses.
type IntentRouter struct {
	herbs           *HerbCatalog
	locations       *LocationService
	geolocation     GeolocationProvider
	geocoder        ReverseGeocoder
	remedies        RemedyClient
	locationTimeout time.Duration
	logger          *zap.Logger
}

// NewIntentRouter creates a new IntentRouter. A non-positive locationTimeout
// falls back to DefaultLocationTimeout.
func NewIntentRouter(
	herbs *HerbCatalog,
	locations *LocationService,
	geolocation GeolocationProvider,
	geocoder ReverseGeocoder,
	remedies RemedyClient,
	locationTimeout time.Duration,
	logger *zap.Logger,
) *IntentRouter {
	if locationTimeout <= 0 {
		locationTimeout = DefaultLocationTimeout
	}

	return &IntentRouter{
		herbs:           herbs,
		locations:       locations,
		geolocation:     geolocation,
		geocoder:        geocoder,
		remedies:        remedies,
		locationTimeout: locationTimeout,
		logger:          logger,
	}
}

// Resolve classifies a raw message. Rules are checked in priority order.
func (r *IntentRouter) Resolve(raw string) entities.Intent {
	if strings.EqualFold(raw, quizStartCommand) {
		return entities.Intent{Kind: entities.IntentQuizStart}
	}

	if isLocationQuery(raw) {
		return entities.Intent{Kind: entities.IntentLocation, Query: raw}
	}

	if r.herbs.IsHerbQuery(raw) {
		return entities.Intent{Kind: entities.IntentHerb, Query: raw}
	}

	return entities.Intent{Kind: entities.IntentRemedy, Query: raw}
}

func isLocationQuery(raw string) bool {
	q := strings.ToLower(raw)
	for _, kw := range locationKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// Execute produces the response for an intent. Recoverable failures are turned
// into responses; an error is returned only for an unknown intent kind.
func (r *IntentRouter) Execute(ctx context.Context, intent entities.Intent) (entities.Response, error) {
	switch intent.Kind {
	case entities.IntentQuizStart:
		return entities.Response{Kind: entities.ResponseQuizStart}, nil
	case entities.IntentLocation:
		return r.executeLocation(ctx), nil
	case entities.IntentHerb:
		return r.executeHerb(intent.Query), nil
	case entities.IntentRemedy:
		return r.executeRemedy(ctx, intent.Query), nil
	default:
		return entities.Response{}, fmt.Errorf("%w: %q", ErrUnknownIntent, intent.Kind)
	}
}

func (r *IntentRouter) executeHerb(query string) entities.Response {
	herb, ok := r.herbs.Search(query)
	if !ok {
		return entities.TextResponse(MissingHerbMessage)
	}
	return entities.Response{Kind: entities.ResponseHerb, Herb: &herb}
}

func (r *IntentRouter) executeRemedy(ctx context.Context, query string) entities.Response {
	res, err := r.remedies.QueryRemedy(ctx, query)
	if err != nil {
		r.logger.Error("remedy query failed", zap.Error(err))
		return entities.TextResponse(RemedyUnavailableMessage)
	}

	if !res.OK() {
		return entities.TextResponse(res.Message)
	}

	return entities.Response{Kind: entities.ResponseRemedyList, Remedies: res.Data}
}

func (r *IntentRouter) executeLocation(ctx context.Context) entities.Response {
	loc := r.resolveLocation(ctx)

	report, err := r.locations.GetWeatherRecommendations(ctx, loc.City)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.logger.Warn("location answer failed", zap.String("city", loc.City), zap.Error(err))
		return entities.Response{Kind: entities.ResponseLocationError, Message: LocationErrorMessage}
	}

	climate := r.locations.DetermineClimateType(loc.City, loc.Country)

	return entities.Response{
		Kind: entities.ResponseLocation,
		Location: &entities.LocationResult{
			Location:        loc,
			Stores:          r.locations.FindNearbyStores(loc.City),
			LocalHerbs:      r.locations.GetLocalHerbs(climate),
			Climate:         climate,
			Weather:         report.Weather,
			WeatherType:     report.Type,
			Recommendations: report.Recommendations,
		},
	}
}

// resolveLocation asks for the user's position within the location timeout
// and names it. Missing positions fall back to New York and failed lookups
// to an unknown place.
func (r *IntentRouter) resolveLocation(ctx context.Context) entities.Location {
	geoCtx, cancel := context.WithTimeout(ctx, r.locationTimeout)
	defer cancel()

	coords, err := r.geolocation.Locate(geoCtx)
	if err != nil {
		r.logger.Debug("geolocation unavailable, using fallback", zap.Error(err))
		lat, lon := fallbackLatitude, fallbackLongitude
		return entities.Location{
			City:      fallbackCity,
			Country:   fallbackCountry,
			Latitude:  &lat,
			Longitude: &lon,
		}
	}

	loc := entities.Location{
		City:      unknownPlace,
		Country:   unknownPlace,
		Latitude:  &coords.Latitude,
		Longitude: &coords.Longitude,
	}

	place, err := r.geocoder.ReverseGeocode(geoCtx, coords)
	if err != nil {
		r.logger.Warn("reverse geocoding failed", zap.Error(err))
		return loc
	}

	if place.City != "" {
		loc.City = place.City
	}
	if place.Country != "" {
		loc.Country = place.Country
	}
	loc.Region = place.Region

	return loc
}
