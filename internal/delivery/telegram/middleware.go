package telegram

import (
	"context"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// CallbackFunc handles a button press. The returned notice is shown to the
// user as a toast.
type CallbackFunc func(ctx context.Context, chatID int64) (notice string, err error)

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

func (h *Handler) withCallbackErrorHandling(fn CallbackFunc) CallbackFunc {
	return func(ctx context.Context, chatID int64) (string, error) {
		notice, err := fn(ctx, chatID)
		if err != nil {
			h.logger.Error("callback error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return msgInternalError, nil
		}
		return notice, nil
	}
}
