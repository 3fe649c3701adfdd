package storage

import (
	"context"
	"fmt"
)

// ResetStorage wipes a chat from the in-memory stores.
type ResetStorage struct {
	transcripts *TranscriptStorage
	results     *QuizResultStorage
}

func NewResetStorage(transcripts *TranscriptStorage, results *QuizResultStorage) *ResetStorage {
	return &ResetStorage{transcripts: transcripts, results: results}
}

func (s *ResetStorage) ResetChat(ctx context.Context, chatID int64) error {
	if err := s.transcripts.Clear(ctx, chatID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	if err := s.results.Clear(ctx, chatID); err != nil {
		return fmt.Errorf("clear quiz results: %w", err)
	}
	return nil
}
