package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

func TestExportText(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	msgs := []*entities.TranscriptMessage{
		{ChatID: 1, Sender: entities.SenderUser, Text: "tell me about neem", CreatedAt: at},
		{ChatID: 1, Sender: entities.SenderBot, Text: "Neem (Margosa): ...", CreatedAt: at.Add(time.Second)},
	}

	got := ExportText(msgs, time.UTC)
	want := "[2024-03-01 09:30:00] You: tell me about neem\n\n" +
		"[2024-03-01 09:30:01] AyurBot: Neem (Margosa): ..."
	assert.Equal(t, want, got)

	assert.Empty(t, ExportText(nil, nil))
}

func TestTranscriptService_RecordAndClear(t *testing.T) {
	repo := &memTranscript{}
	svc := NewTranscriptService(repo, time.Hour, "@every 1h", zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, 1, entities.SenderUser, "hello"))
	require.NoError(t, svc.Record(ctx, 1, entities.SenderBot, "   "))
	require.NoError(t, svc.Record(ctx, 2, entities.SenderUser, "other chat"))

	history, err := svc.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hello", history[0].Text)

	text, err := svc.Export(ctx, 1, time.UTC)
	require.NoError(t, err)
	assert.Contains(t, text, "] You: hello")

	require.NoError(t, svc.Clear(ctx, 1))
	history, err = svc.History(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = svc.History(ctx, 2, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTranscriptService_Prune(t *testing.T) {
	repo := &memTranscript{}
	now := time.Now()
	repo.msgs = []*entities.TranscriptMessage{
		{ChatID: 1, Text: "old", CreatedAt: now.Add(-48 * time.Hour)},
		{ChatID: 1, Text: "new", CreatedAt: now.Add(-time.Hour)},
	}

	svc := NewTranscriptService(repo, 24*time.Hour, "@daily", zap.NewNop())
	n, err := svc.Prune(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.Len(t, repo.msgs, 1)
	assert.Equal(t, "new", repo.msgs[0].Text)

	disabled := NewTranscriptService(repo, 0, "@daily", zap.NewNop())
	n, err = disabled.Prune(context.Background(), now.Add(1000*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTranscriptService_StartStopsWithContext(t *testing.T) {
	svc := NewTranscriptService(&memTranscript{}, time.Hour, "@every 1h", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Start(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("retention job did not stop")
	}
}

func TestTranscriptService_StartRejectsBadSchedule(t *testing.T) {
	svc := NewTranscriptService(&memTranscript{}, time.Hour, "not a schedule", zap.NewNop())
	assert.Error(t, svc.Start(context.Background()))
}
