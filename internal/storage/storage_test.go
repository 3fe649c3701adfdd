package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/service"
)

func TestLocationStorage_TTL(t *testing.T) {
	s := NewLocationStorage(time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Store(1, entities.Coordinates{Latitude: 51.5, Longitude: -0.12})

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.InDelta(t, 51.5, got.Latitude, 1e-9)

	now = now.Add(2 * time.Hour)
	_, ok = s.Get(1)
	assert.False(t, ok)

	s.Store(1, entities.Coordinates{Latitude: 1})
	s.Delete(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
}

func TestTranscriptStorage(t *testing.T) {
	s := NewTranscriptStorage()
	ctx := context.Background()
	base := time.Now()

	for i, text := range []string{"a", "b", "c"} {
		msg := entities.NewTranscriptMessage(1, entities.SenderUser, text)
		msg.CreatedAt = base.Add(time.Duration(i-3) * time.Hour)
		require.NoError(t, s.Append(ctx, msg))
	}
	require.NoError(t, s.Append(ctx, entities.NewTranscriptMessage(2, entities.SenderBot, "x")))

	last, err := s.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "b", last[0].Text)
	assert.Equal(t, "c", last[1].Text)

	all, err := s.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := s.DeleteBefore(ctx, base.Add(-90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err = s.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0].Text)

	require.NoError(t, s.Clear(ctx, 1))
	all, err = s.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, all)

	other, err := s.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestQuizResultStorageAndReset(t *testing.T) {
	results := NewQuizResultStorage()
	transcripts := NewTranscriptStorage()
	ctx := context.Background()

	require.NoError(t, results.Save(ctx, entities.NewQuizResult(1, 3, 15)))
	require.NoError(t, results.Save(ctx, entities.NewQuizResult(1, 12, 15)))
	require.NoError(t, transcripts.Append(ctx, entities.NewTranscriptMessage(1, entities.SenderUser, "hi")))

	got, err := results.ListByChat(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 12, got[0].Score)
	assert.Equal(t, 80, got[0].Percentage())

	require.NoError(t, NewResetStorage(transcripts, results).ResetChat(ctx, 1))

	got, err = results.ListByChat(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	msgs, err := transcripts.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestQuizMessageStorage(t *testing.T) {
	s := NewQuizMessageStorage()

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Store(1, 100)
	s.Store(1, 101)
	msg, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 101, msg.MessageID)

	s.Delete(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
}

func TestConversationStorage_GetOrCreate(t *testing.T) {
	s := NewConversationStorage()
	created := 0
	create := func() *service.Conversation {
		created++
		return service.NewConversation(1, service.ConversationDeps{}, nil)
	}

	a := s.GetOrCreate(1, create)
	b := s.GetOrCreate(1, create)
	assert.Same(t, a, b)
	assert.Equal(t, 1, created)

	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Same(t, a, got)

	s.CloseAll()
	_, ok = s.Get(1)
	assert.False(t, ok)
}
