package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/service"
)

// BotAPI is the part of the Telegram client the handler uses.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type TranscriptService interface {
	History(ctx context.Context, chatID int64, limit int) ([]*entities.TranscriptMessage, error)
	Export(ctx context.Context, chatID int64, loc *time.Location) (string, error)
}

type QuizResultService interface {
	ListByChat(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error)
}

type HerbBrowser interface {
	ListHerbs(ctx context.Context, skip, limit int) ([]entities.HerbSummary, error)
}

// ChatResetter wipes everything stored about a chat.
type ChatResetter interface {
	ResetChat(ctx context.Context, chatID int64) error
}

// ConversationFactory creates the conversation of a new chat. notifier
// receives replies produced outside of an update, such as timed quiz advances.
type ConversationFactory func(chatID int64, notifier func(service.Reply)) *service.Conversation
