package entities

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies the author of a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// TranscriptMessage is one line of a chat transcript.
type TranscriptMessage struct {
	ID        uuid.UUID
	ChatID    int64
	Sender    Sender
	Text      string
	CreatedAt time.Time
}

// NewTranscriptMessage creates a message stamped with the current time.
func NewTranscriptMessage(chatID int64, sender Sender, text string) *TranscriptMessage {
	return &TranscriptMessage{
		ID:        uuid.New(),
		ChatID:    chatID,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
