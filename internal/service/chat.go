package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

var ErrNoSharedLocation = errors.New("no shared location")

type chatIDKey struct{}

// WithChatID returns a context carrying the chat the request belongs to.
func WithChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, chatIDKey{}, chatID)
}

// ChatIDFromContext extracts the chat set by WithChatID.
func ChatIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(chatIDKey{}).(int64)
	return id, ok
}

// SharedLocations looks up the last location a chat shared.
type SharedLocations interface {
	Get(chatID int64) (entities.Coordinates, bool)
}

// ChatGeolocator locates the user by the location their chat last shared.
type ChatGeolocator struct {
	locations SharedLocations
}

// NewChatGeolocator creates a new ChatGeolocator.
func NewChatGeolocator(locations SharedLocations) *ChatGeolocator {
	return &ChatGeolocator{locations: locations}
}

// Locate implements GeolocationProvider.
func (g *ChatGeolocator) Locate(ctx context.Context) (entities.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return entities.Coordinates{}, err
	}

	chatID, ok := ChatIDFromContext(ctx)
	if !ok {
		return entities.Coordinates{}, ErrNoSharedLocation
	}

	c, ok := g.locations.Get(chatID)
	if !ok {
		return entities.Coordinates{}, ErrNoSharedLocation
	}

	return c, nil
}
