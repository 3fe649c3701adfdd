package storage

import (
	"sync"

	"github.com/aliskhannn/ayurbot/internal/service"
)

// ConversationStorage keeps one in-memory conversation per chat.
type ConversationStorage struct {
	mu            sync.RWMutex
	conversations map[int64]*service.Conversation
}

// NewConversationStorage creates a new ConversationStorage.
func NewConversationStorage() *ConversationStorage {
	return &ConversationStorage{
		conversations: make(map[int64]*service.Conversation),
	}
}

// GetOrCreate returns the chat's conversation, creating it with create on first use.
func (s *ConversationStorage) GetOrCreate(chatID int64, create func() *service.Conversation) *service.Conversation {
	s.mu.RLock()
	c, ok := s.conversations[chatID]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok = s.conversations[chatID]; ok {
		return c
	}
	c = create()
	s.conversations[chatID] = c
	return c
}

// Get retrieves the conversation for a chat.
func (s *ConversationStorage) Get(chatID int64) (*service.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[chatID]
	return c, ok
}

// CloseAll closes every conversation and forgets them.
func (s *ConversationStorage) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.conversations {
		c.Close()
		delete(s.conversations, id)
	}
}
