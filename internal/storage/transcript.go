package storage

import (
	"context"
	"sync"
	"time"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

// TranscriptStorage is an in-memory transcript store used when no database
// is configured.
type TranscriptStorage struct {
	mu       sync.RWMutex
	messages map[int64][]*entities.TranscriptMessage
}

func NewTranscriptStorage() *TranscriptStorage {
	return &TranscriptStorage{
		messages: make(map[int64][]*entities.TranscriptMessage),
	}
}

func (s *TranscriptStorage) Append(_ context.Context, msg *entities.TranscriptMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ChatID] = append(s.messages[msg.ChatID], msg)
	return nil
}

// List returns up to limit most recent messages, oldest first. A
// non-positive limit returns everything.
func (s *TranscriptStorage) List(_ context.Context, chatID int64, limit int) ([]*entities.TranscriptMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[chatID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*entities.TranscriptMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *TranscriptStorage) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, chatID)
	return nil
}

func (s *TranscriptStorage) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for chatID, msgs := range s.messages {
		kept := msgs[:0]
		for _, m := range msgs {
			if m.CreatedAt.Before(before) {
				deleted++
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == 0 {
			delete(s.messages, chatID)
		} else {
			s.messages[chatID] = kept
		}
	}

	return deleted, nil
}
