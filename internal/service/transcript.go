package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// TranscriptService records chat history and prunes it on a schedule.
type TranscriptService struct {
	repo      TranscriptRepository
	retention time.Duration
	schedule  string
	logger    *zap.Logger
}

// NewTranscriptService creates a new TranscriptService. A zero retention
// disables pruning.
func NewTranscriptService(
	repo TranscriptRepository,
	retention time.Duration,
	schedule string,
	logger *zap.Logger,
) *TranscriptService {
	return &TranscriptService{
		repo:      repo,
		retention: retention,
		schedule:  schedule,
		logger:    logger,
	}
}

// Record appends one message to a chat's transcript.
func (s *TranscriptService) Record(ctx context.Context, chatID int64, sender entities.Sender, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := s.repo.Append(ctx, entities.NewTranscriptMessage(chatID, sender, text)); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

// History returns up to limit most recent messages, oldest first.
func (s *TranscriptService) History(ctx context.Context, chatID int64, limit int) ([]*entities.TranscriptMessage, error) {
	msgs, err := s.repo.List(ctx, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transcript: %w", err)
	}
	return msgs, nil
}

// Clear removes a chat's transcript.
func (s *TranscriptService) Clear(ctx context.Context, chatID int64) error {
	if err := s.repo.Clear(ctx, chatID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

// Export renders a chat's full transcript as plain text.
func (s *TranscriptService) Export(ctx context.Context, chatID int64, loc *time.Location) (string, error) {
	msgs, err := s.repo.List(ctx, chatID, 0)
	if err != nil {
		return "", fmt.Errorf("list transcript: %w", err)
	}
	return ExportText(msgs, loc), nil
}

// ExportText formats messages as "[timestamp] You|AyurBot: text" blocks
// separated by blank lines.
func ExportText(msgs []*entities.TranscriptMessage, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		sender := "You"
		if m.Sender == entities.SenderBot {
			sender = "AyurBot"
		}
		blocks = append(blocks, fmt.Sprintf("[%s] %s: %s",
			m.CreatedAt.In(loc).Format(exportTimeLayout), sender, m.Text))
	}

	return strings.Join(blocks, "\n\n")
}

// Prune deletes messages older than the retention period.
func (s *TranscriptService) Prune(ctx context.Context, now time.Time) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	n, err := s.repo.DeleteBefore(ctx, now.Add(-s.retention))
	if err != nil {
		return 0, fmt.Errorf("delete old transcript: %w", err)
	}
	return n, nil
}

// Start runs the retention job until ctx is cancelled.
func (s *TranscriptService) Start(ctx context.Context) error {
	if s.retention <= 0 {
		s.logger.Info("transcript retention disabled")
		<-ctx.Done()
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		n, err := s.Prune(ctx, time.Now().UTC())
		if err != nil {
			s.logger.Error("failed to prune transcripts", zap.Error(err))
			return
		}
		s.logger.Info("transcripts pruned", zap.Int64("deleted", n))
	})
	if err != nil {
		return fmt.Errorf("add retention job: %w", err)
	}

	c.Start()
	s.logger.Info("transcript retention started",
		zap.String("schedule", s.schedule),
		zap.Duration("retention", s.retention),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("transcript retention stopped")

	return nil
}
