// Package geo holds the location collaborators: reverse geocoding and weather.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const DefaultGeocoderURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"

var ErrGeocodingFailed = errors.New("reverse geocoding failed")

type reverseGeocodeResponse struct {
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	CountryName          string `json:"countryName"`
	PrincipalSubdivision string `json:"principalSubdivision"`
}

// Geocoder resolves coordinates with the BigDataCloud client-side endpoint.
type Geocoder struct {
	endpoint string
	http     *http.Client
}

// NewGeocoder creates a new Geocoder. An empty endpoint uses DefaultGeocoderURL.
func NewGeocoder(endpoint string, timeout time.Duration) *Geocoder {
	if endpoint == "" {
		endpoint = DefaultGeocoderURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Geocoder{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// ReverseGeocode names the place at c. City falls back to locality, then to
// "Unknown".
func (g *Geocoder) ReverseGeocode(ctx context.Context, c entities.Coordinates) (entities.Place, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	q.Set("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return entities.Place{}, fmt.Errorf("create request: %w", err)
	}

	res, err := g.http.Do(req)
	if err != nil {
		return entities.Place{}, fmt.Errorf("%w: %w", ErrGeocodingFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return entities.Place{}, fmt.Errorf("%w: status %d", ErrGeocodingFailed, res.StatusCode)
	}

	var body reverseGeocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entities.Place{}, fmt.Errorf("%w: decode: %w", ErrGeocodingFailed, err)
	}

	city := firstNonEmpty(body.City, body.Locality, "Unknown")

	return entities.Place{
		City:    city,
		Country: firstNonEmpty(body.CountryName, "Unknown"),
		Region:  body.PrincipalSubdivision,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
