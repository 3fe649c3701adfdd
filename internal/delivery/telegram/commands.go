package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const exportFileLayout = "20060102-150405"

func (h *Handler) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID

	var fn HandlerFunc
	switch m.Command() {
	case "start":
		fn = h.handleStart()
	case "help":
		fn = h.handleHelp()
	case "quiz":
		fn = h.handleQuiz()
	case "quit":
		fn = h.handleQuit()
	case "herbs":
		fn = h.handleHerbs()
	case "location":
		fn = h.handleLocationRequest()
	case "history":
		fn = h.handleHistory()
	case "export":
		fn = h.handleExport()
	case "results":
		fn = h.handleResults()
	case "clear":
		fn = h.handleClear()
	default:
		fn = func(ctx context.Context, chatID int64) error {
			return h.send(newPlainMessage(chatID, msgUnknownCommand))
		}
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, welcomeMessage())
		msg.ReplyMarkup = buildMainMenuKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpMessage()))
	}
}

// handleText passes free text to the chat's conversation.
func (h *Handler) handleText(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		reply := h.conversation(chatID).Submit(ctx, text)
		return h.deliver(chatID, reply)
	}
}

// handleQuiz starts a new quiz, discarding a running one.
func (h *Handler) handleQuiz() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.clearQuizMessage(chatID)

		reply, err := h.conversation(chatID).StartQuiz(ctx)
		if err != nil {
			h.logger.Warn("quiz start failed",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}
		return h.deliver(chatID, reply)
	}
}

func (h *Handler) handleQuit() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		reply := h.conversation(chatID).QuitQuiz()
		h.clearQuizMessage(chatID)
		return h.deliver(chatID, reply)
	}
}

func (h *Handler) handleHerbs() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.herbsPage(ctx, 0)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		return h.send(msg)
	}
}

// herbsPage fetches one page of the herb list. One extra record is requested
// to learn whether a next page exists.
func (h *Handler) herbsPage(ctx context.Context, page int) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	size := h.cfg.HerbsPageSize

	herbs, err := h.deps.Herbs.ListHerbs(ctx, page*size, size+1)
	if err != nil {
		return "", nil, fmt.Errorf("list herbs: %w", err)
	}

	hasNext := len(herbs) > size
	if hasNext {
		herbs = herbs[:size]
	}

	return formatHerbPage(herbs, page), buildHerbsKeyboard(page, hasNext), nil
}

func (h *Handler) handleLocationRequest() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgShareLocation)
		msg.ReplyMarkup = buildLocationRequestKeyboard()
		return h.send(msg)
	}
}

// handleSharedLocation remembers the position and answers the location intent
// right away.
func (h *Handler) handleSharedLocation(loc *tgbotapi.Location) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.rememberLocation(chatID, loc)

		ack := newPlainMessage(chatID, msgLocationSaved)
		ack.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		if err := h.send(ack); err != nil {
			return err
		}

		reply := h.conversation(chatID).Submit(ctx, locationQuery)
		return h.deliver(chatID, reply)
	}
}

func (h *Handler) handleHistory() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msgs, err := h.deps.Transcript.History(ctx, chatID, h.cfg.HistoryLimit)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}

		if len(msgs) == 0 {
			return h.send(newPlainMessage(chatID, msgHistoryEmpty))
		}

		return h.send(newMessage(chatID, formatHistory(msgs, h.cfg.Location)))
	}
}

// handleExport sends the whole transcript as a text file.
func (h *Handler) handleExport() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.deps.Transcript.Export(ctx, chatID, h.cfg.Location)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		if text == "" {
			return h.send(newPlainMessage(chatID, msgHistoryEmpty))
		}

		name := fmt.Sprintf("ayurbot-chat-%s.txt", time.Now().In(h.cfg.Location).Format(exportFileLayout))
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: []byte(text)})
		doc.Caption = msgExportCaption
		return h.send(doc)
	}
}

func (h *Handler) handleResults() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		results, err := h.deps.Results.ListByChat(ctx, chatID, resultsLimit)
		if err != nil {
			return fmt.Errorf("quiz results: %w", err)
		}

		if len(results) == 0 {
			msg := newPlainMessage(chatID, msgNoResults)
			msg.ReplyMarkup = buildQuizStartKeyboard()
			return h.send(msg)
		}

		return h.send(newMessage(chatID, formatResults(results, h.cfg.Location)))
	}
}

// handleClear asks for confirmation before wiping the chat.
func (h *Handler) handleClear() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgClearConfirm)
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// clearQuizMessage strips the buttons from the chat's quiz message and forgets it.
func (h *Handler) clearQuizMessage(chatID int64) {
	prev, ok := h.deps.QuizMessages.Get(chatID)
	if !ok {
		return
	}
	h.deps.QuizMessages.Delete(chatID)

	h.edit(tgbotapi.NewEditMessageReplyMarkup(chatID, prev.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	}))
}
