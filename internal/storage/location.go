package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

type sharedLocation struct {
	coords   entities.Coordinates
	sharedAt time.Time
}

// LocationStorage keeps the last location each chat shared.
// Entries older than ttl are ignored; a zero ttl keeps them forever.
type LocationStorage struct {
	mu        sync.RWMutex
	locations map[int64]sharedLocation
	ttl       time.Duration
	now       func() time.Time
}

// NewLocationStorage creates a new LocationStorage.
func NewLocationStorage(ttl time.Duration) *LocationStorage {
	return &LocationStorage{
		locations: make(map[int64]sharedLocation),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Store saves the location a chat shared.
func (s *LocationStorage) Store(chatID int64, c entities.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[chatID] = sharedLocation{coords: c, sharedAt: s.now()}
}

// Get returns the chat's last shared location if it has not expired.
func (s *LocationStorage) Get(chatID int64) (entities.Coordinates, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[chatID]
	if !ok {
		return entities.Coordinates{}, false
	}
	if s.ttl > 0 && s.now().Sub(loc.sharedAt) > s.ttl {
		return entities.Coordinates{}, false
	}
	return loc.coords, true
}

// Delete forgets a chat's location.
func (s *LocationStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locations, chatID)
}
