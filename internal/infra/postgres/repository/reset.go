package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/ayurbot/internal/infra/postgres"
)

// ResetRepository wipes everything stored about a chat.
type ResetRepository struct {
	tx *postgres.Transactor
}

func NewResetRepository(tx *postgres.Transactor) *ResetRepository {
	return &ResetRepository{tx: tx}
}

// ResetChat deletes the chat's transcript and quiz results in one transaction.
func (r *ResetRepository) ResetChat(ctx context.Context, chatID int64) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, db postgres.DBTX) error {
		if err := NewTranscriptRepository(db).Clear(ctx, chatID); err != nil {
			return err
		}
		if _, err := db.Exec(ctx, `DELETE FROM quiz_results WHERE chat_id = $1`, chatID); err != nil {
			return fmt.Errorf("delete quiz_results: %w", err)
		}
		return nil
	})
}
