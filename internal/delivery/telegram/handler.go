package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/service"
	"github.com/aliskhannn/ayurbot/internal/storage"
)

const (
	defaultUpdateTimeout = 60
	defaultMaxConcurrent = 32
	defaultHerbsPageSize = 5
	defaultHistoryLimit  = 20
	resultsLimit         = 10
)

// Config tunes the update loop and the list commands.
type Config struct {
	UpdateTimeout int
	MaxConcurrent int
	HerbsPageSize int
	HistoryLimit  int
	Location      *time.Location // time zone of exported transcripts
}

func (c Config) withDefaults() Config {
	if c.UpdateTimeout <= 0 {
		c.UpdateTimeout = defaultUpdateTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}
	if c.HerbsPageSize <= 0 {
		c.HerbsPageSize = defaultHerbsPageSize
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = defaultHistoryLimit
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// Deps holds the handler's collaborators.
type Deps struct {
	Conversations   *storage.ConversationStorage
	NewConversation ConversationFactory
	Locations       *storage.LocationStorage
	QuizMessages    *storage.QuizMessageStorage
	Transcript      TranscriptService
	Results         QuizResultService
	Herbs           HerbBrowser
	Reset           ChatResetter
}

type Handler struct {
	bot    BotAPI
	logger *zap.Logger
	cfg    Config
	deps   Deps

	sem chan struct{}
	wg  sync.WaitGroup
}

func NewHandler(bot BotAPI, logger *zap.Logger, cfg Config, deps Deps) *Handler {
	cfg = cfg.withDefaults()
	return &Handler{
		bot:    bot,
		logger: logger,
		cfg:    cfg,
		deps:   deps,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Run reads updates until ctx is cancelled. Each update is handled on its own
// goroutine; at most MaxConcurrent run at once.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = h.cfg.UpdateTimeout

	updates := h.bot.GetUpdatesChan(u)
	defer h.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if !h.acquire(ctx) {
				h.bot.StopReceivingUpdates()
				return ctx.Err()
			}

			h.wg.Add(1)
			go func() {
				defer h.wg.Done()
				defer h.release()
				h.handleUpdate(ctx, update)
			}()
		}
	}
}

func (h *Handler) acquire(ctx context.Context) bool {
	select {
	case h.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (h *Handler) release() {
	<-h.sem
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while handling update",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
			)
		}
	}()

	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	ctx = service.WithChatID(ctx, chatID)

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if loc := update.Message.Location; loc != nil {
		_ = h.withErrorHandling(h.handleSharedLocation(loc))(ctx, chatID)
		return
	}

	if update.Message.IsCommand() {
		h.handleCommand(ctx, update.Message)
		return
	}

	if update.Message.Text == "" {
		return
	}

	_ = h.withErrorHandling(h.handleText(update.Message.Text))(ctx, chatID)
}

// conversation returns the chat's conversation, creating it on first use.
func (h *Handler) conversation(chatID int64) *service.Conversation {
	return h.deps.Conversations.GetOrCreate(chatID, func() *service.Conversation {
		return h.deps.NewConversation(chatID, h.quizNotifier(chatID))
	})
}

// quizNotifier shows replies produced by quiz timers in the chat's quiz message.
func (h *Handler) quizNotifier(chatID int64) func(service.Reply) {
	return func(reply service.Reply) {
		if err := h.showQuiz(chatID, reply, true); err != nil {
			h.logger.Error("failed to show timed quiz update",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
	}
}

// deliver shows a conversation reply. Stale replies are dropped.
func (h *Handler) deliver(chatID int64, reply service.Reply) error {
	if reply.Stale {
		h.logger.Debug("dropping stale reply",
			zap.Int64("chat_id", chatID),
			zap.Uint64("generation", reply.Generation),
		)
		return nil
	}

	if reply.Quiz != nil {
		return h.showQuiz(chatID, reply, false)
	}

	msg := newMessage(chatID, renderResponse(reply.Response))
	if kb := responseKeyboard(reply.Response); kb != nil {
		msg.ReplyMarkup = kb
	}
	return h.send(msg)
}

// showQuiz renders a quiz reply. With inPlace set the chat's quiz message is
// edited, otherwise a new message is sent and becomes the quiz message.
func (h *Handler) showQuiz(chatID int64, reply service.Reply, inPlace bool) error {
	if reply.Stale || reply.Quiz == nil {
		return nil
	}

	text, kb := renderQuiz(*reply.Quiz, reply.Generation)
	terminal := reply.Quiz.Phase.Terminal()

	if inPlace {
		if prev, ok := h.deps.QuizMessages.Get(chatID); ok {
			edit := newEdit(chatID, prev.MessageID, text)
			edit.ReplyMarkup = kb
			if terminal {
				h.deps.QuizMessages.Delete(chatID)
			}
			h.edit(edit)
			return nil
		}
	}

	msg := newMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}

	sent, err := h.bot.Send(msg)
	if err != nil {
		return err
	}

	if terminal {
		h.deps.QuizMessages.Delete(chatID)
	} else {
		h.deps.QuizMessages.Store(chatID, sent.MessageID)
	}
	return nil
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// edit applies an edit. Failed edits are logged only: the message may have been
// deleted or already show the same content.
func (h *Handler) edit(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Warn("failed to edit telegram message", zap.Error(err))
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

// rememberLocation stores coordinates shared by the user.
func (h *Handler) rememberLocation(chatID int64, loc *tgbotapi.Location) {
	h.deps.Locations.Store(chatID, entities.Coordinates{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	})
}
