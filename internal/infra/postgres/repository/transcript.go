package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/infra/postgres"
)

// TranscriptRepository stores chat transcripts in PostgreSQL.
type TranscriptRepository struct {
	db postgres.DBTX
}

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(db postgres.DBTX) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Append inserts a single message.
func (r *TranscriptRepository) Append(ctx context.Context, msg *entities.TranscriptMessage) error {
	query := `
		INSERT INTO transcript_messages (id, chat_id, sender, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, msg.ID, msg.ChatID, string(msg.Sender), msg.Text, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transcript message: %w", err)
	}

	return nil
}

// List returns up to limit most recent messages of a chat, oldest first.
// A non-positive limit returns the whole transcript.
func (r *TranscriptRepository) List(ctx context.Context, chatID int64, limit int) ([]*entities.TranscriptMessage, error) {
	query := `
		SELECT id, chat_id, sender, text, created_at
		FROM (
			SELECT id, chat_id, sender, text, created_at
			FROM transcript_messages
			WHERE chat_id = $1
			ORDER BY created_at DESC
			LIMIT NULLIF($2, 0)
		) recent
		ORDER BY created_at
	`

	if limit < 0 {
		limit = 0
	}

	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transcript: %w", err)
	}
	defer rows.Close()

	var msgs []*entities.TranscriptMessage
	for rows.Next() {
		var (
			m      entities.TranscriptMessage
			sender string
		)
		if err := rows.Scan(&m.ID, &m.ChatID, &sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transcript message: %w", err)
		}
		m.Sender = entities.Sender(sender)
		msgs = append(msgs, &m)
	}

	return msgs, rows.Err()
}

// Clear removes every message of a chat.
func (r *TranscriptRepository) Clear(ctx context.Context, chatID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM transcript_messages WHERE chat_id = $1`, chatID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

// DeleteBefore removes messages created before the given time.
func (r *TranscriptRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM transcript_messages WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete old transcript messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
