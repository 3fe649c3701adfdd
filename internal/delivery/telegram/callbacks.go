package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	ctx = service.WithChatID(ctx, chatID)

	data := decodeCallback(cb.Data)

	var fn CallbackFunc
	switch data.Action {
	case actionQuiz:
		fn = h.handleQuizCallback(data, msgID)
	case actionHerbs:
		fn = h.handleHerbsCallback(data, msgID)
	case actionReset:
		fn = h.handleResetCallback(data, msgID)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	notice, _ := h.withCallbackErrorHandling(fn)(ctx, chatID)

	// Remove the user's "clock".
	h.answerCallback(cb.ID, notice)
}

func (h *Handler) handleQuizCallback(data callbackData, msgID int) CallbackFunc {
	return func(ctx context.Context, chatID int64) (string, error) {
		switch data.param(0) {
		case quizStart:
			h.clearQuizMessage(chatID)

			reply, err := h.conversation(chatID).StartQuiz(ctx)
			if err != nil {
				h.logger.Warn("quiz start failed",
					zap.Int64("chat_id", chatID),
					zap.Error(err),
				)
			}
			return "", h.deliver(chatID, reply)

		case quizAnswer:
			return h.answerQuiz(ctx, chatID, data, msgID)

		case quizNext:
			gen, err := parseGeneration(data)
			if err != nil {
				return "", err
			}

			reply, ok := h.conversation(chatID).NextQuestion(gen)
			if !ok {
				return noticeQuizExpired, nil
			}
			h.editQuiz(chatID, msgID, reply)
			return "", nil

		case quizExit:
			reply := h.conversation(chatID).QuitQuiz()
			h.deps.QuizMessages.Delete(chatID)
			h.edit(newEdit(chatID, msgID, md(reply.Response.Message)))
			return "", nil

		default:
			return "", fmt.Errorf("%w: %q", errMalformedCallback, data.Raw)
		}
	}
}

func (h *Handler) answerQuiz(ctx context.Context, chatID int64, data callbackData, msgID int) (string, error) {
	p, err := parseQuizAnswer(data)
	if err != nil {
		return "", err
	}

	reply, err := h.conversation(chatID).AnswerQuiz(ctx, p.Generation, p.QuestionID, p.Option)
	switch {
	case err == nil, errors.Is(err, service.ErrQuizUnavailable):
	case errors.Is(err, service.ErrAnswerPending):
		return noticeAnswerPending, nil
	case errors.Is(err, service.ErrStaleAnswer),
		errors.Is(err, service.ErrInvalidOption),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrQuizClosed):
		return noticeQuizExpired, nil
	default:
		return "", fmt.Errorf("answer quiz: %w", err)
	}

	h.editQuiz(chatID, msgID, reply)
	return "", nil
}

// editQuiz shows a quiz reply in the message the button belonged to.
func (h *Handler) editQuiz(chatID int64, msgID int, reply service.Reply) {
	if reply.Stale || reply.Quiz == nil {
		return
	}

	text, kb := renderQuiz(*reply.Quiz, reply.Generation)
	edit := newEdit(chatID, msgID, text)
	edit.ReplyMarkup = kb

	if reply.Quiz.Phase.Terminal() {
		h.deps.QuizMessages.Delete(chatID)
	} else {
		h.deps.QuizMessages.Store(chatID, msgID)
	}

	h.edit(edit)
}

func (h *Handler) handleHerbsCallback(data callbackData, msgID int) CallbackFunc {
	return func(ctx context.Context, chatID int64) (string, error) {
		page, err := parsePage(data)
		if err != nil {
			return "", err
		}

		text, kb, err := h.herbsPage(ctx, page)
		if err != nil {
			return "", err
		}

		edit := newEdit(chatID, msgID, text)
		edit.ReplyMarkup = kb
		h.edit(edit)
		return "", nil
	}
}

func (h *Handler) handleResetCallback(data callbackData, msgID int) CallbackFunc {
	return func(ctx context.Context, chatID int64) (string, error) {
		switch data.param(0) {
		case resetConfirm:
			if err := h.deps.Reset.ResetChat(ctx, chatID); err != nil {
				return "", fmt.Errorf("reset chat: %w", err)
			}
			h.logger.Info("chat reset", zap.Int64("chat_id", chatID))
			h.edit(tgbotapi.NewEditMessageText(chatID, msgID, msgClearDone))
			return "", nil

		case resetCancel:
			h.edit(tgbotapi.NewEditMessageText(chatID, msgID, msgClearCancelled))
			return "", nil

		default:
			return "", fmt.Errorf("%w: %q", errMalformedCallback, data.Raw)
		}
	}
}
