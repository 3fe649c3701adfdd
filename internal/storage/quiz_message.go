package storage

import (
	"sync"
	"time"
)

// QuizMessage points at the chat message that shows the running quiz.
type QuizMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// QuizMessageStorage remembers the quiz message of every chat so that timed
// updates can edit it in place.
type QuizMessageStorage struct {
	mu       sync.RWMutex
	messages map[int64]QuizMessage
}

func NewQuizMessageStorage() *QuizMessageStorage {
	return &QuizMessageStorage{
		messages: make(map[int64]QuizMessage),
	}
}

func (s *QuizMessageStorage) Store(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[chatID] = QuizMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}
}

func (s *QuizMessageStorage) Get(chatID int64) (QuizMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *QuizMessageStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}
