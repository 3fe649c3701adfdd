package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/infra/postgres"
)

// QuizResultRepository stores completed quiz scores in PostgreSQL.
type QuizResultRepository struct {
	db postgres.DBTX
}

// NewQuizResultRepository creates a new QuizResultRepository.
func NewQuizResultRepository(db postgres.DBTX) *QuizResultRepository {
	return &QuizResultRepository{db: db}
}

// Save inserts a result.
func (r *QuizResultRepository) Save(ctx context.Context, res *entities.QuizResult) error {
	query := `
		INSERT INTO quiz_results (id, chat_id, score, total, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, res.ID, res.ChatID, res.Score, res.Total, res.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}

	return nil
}

// ListByChat returns up to limit most recent results, newest first.
func (r *QuizResultRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]*entities.QuizResult, error) {
	query := `
		SELECT id, chat_id, score, total, completed_at
		FROM quiz_results
		WHERE chat_id = $1
		ORDER BY completed_at DESC
		LIMIT NULLIF($2, 0)
	`

	if limit < 0 {
		limit = 0
	}

	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var results []*entities.QuizResult
	for rows.Next() {
		var res entities.QuizResult
		if err := rows.Scan(&res.ID, &res.ChatID, &res.Score, &res.Total, &res.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		results = append(results, &res)
	}

	return results, rows.Err()
}
