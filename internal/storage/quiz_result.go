package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

// QuizResultStorage is an in-memory quiz result store.
type QuizResultStorage struct {
	mu      sync.RWMutex
	results map[int64][]*entities.QuizResult
}

func NewQuizResultStorage() *QuizResultStorage {
	return &QuizResultStorage{
		results: make(map[int64][]*entities.QuizResult),
	}
}

func (s *QuizResultStorage) Save(_ context.Context, r *entities.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.ChatID] = append(s.results[r.ChatID], r)
	return nil
}

// ListByChat returns up to limit most recent results, newest first.
func (s *QuizResultStorage) ListByChat(_ context.Context, chatID int64, limit int) ([]*entities.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.results[chatID]
	out := make([]*entities.QuizResult, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, all[i])
	}
	return out, nil
}

// Clear removes every result of a chat.
func (s *QuizResultStorage) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, chatID)
	return nil
}
