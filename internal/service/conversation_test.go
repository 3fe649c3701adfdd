package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const testChatID int64 = 42

type conversationFixture struct {
	conv       *Conversation
	sched      *manualScheduler
	transcript *memTranscript
	results    *memResults

	mu       sync.Mutex
	notified []Reply
}

func (f *conversationFixture) Notified() []Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Reply(nil), f.notified...)
}

func newConversationFixture(t *testing.T, oracle QuizOracle, remedies RemedyClient) *conversationFixture {
	t.Helper()

	f := &conversationFixture{
		sched:      &manualScheduler{},
		transcript: &memTranscript{},
		results:    &memResults{},
	}
	deps := ConversationDeps{
		Router:     newRouter(t, routerOpts{remedies: remedies}),
		Oracle:     oracle,
		Transcript: NewTranscriptService(f.transcript, 0, "", zap.NewNop()),
		Results:    f.results,
		Scheduler:  f.sched,
		Logger:     zap.NewNop(),
	}
	f.conv = NewConversation(testChatID, deps, func(r Reply) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.notified = append(f.notified, r)
	})

	return f
}

func TestConversation_SubmitRecordsTranscript(t *testing.T) {
	f := newConversationFixture(t, twoQuestionOracle(), nil)

	reply := f.conv.Submit(context.Background(), "tell me about neem")
	assert.False(t, reply.Stale)
	assert.Nil(t, reply.Quiz)
	require.Equal(t, entities.ResponseHerb, reply.Response.Kind)
	assert.Equal(t, "neem", reply.Response.Herb.Key)

	msgs, err := f.transcript.List(context.Background(), testChatID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, entities.SenderUser, msgs[0].Sender)
	assert.Equal(t, "tell me about neem", msgs[0].Text)
	assert.Equal(t, entities.SenderBot, msgs[1].Sender)
	assert.Contains(t, msgs[1].Text, "Neem (Margosa): ")
}

func TestConversation_QuizByText(t *testing.T) {
	f := newConversationFixture(t, twoQuestionOracle(), nil)
	ctx := context.Background()

	reply := f.conv.Submit(ctx, "START QUIZ")
	require.NotNil(t, reply.Quiz)
	assert.Equal(t, entities.QuizPhaseInProgress, reply.Quiz.Phase)
	mode, gen := f.conv.Mode()
	assert.Equal(t, ModeQuizzing, mode)
	assert.Equal(t, gen, reply.Generation)

	msgs, _ := f.transcript.List(ctx, testChatID, 0)
	assert.Empty(t, msgs, "quiz start must not reach the transcript")

	reply = f.conv.Submit(ctx, "brahmi")
	require.NotNil(t, reply.Quiz)
	assert.Equal(t, entities.QuizPhaseExplanation, reply.Quiz.Phase)
	assert.Equal(t, 1, reply.Quiz.Score)

	reply = f.conv.Submit(ctx, "what now?")
	assert.Equal(t, entities.TextResponse(QuizHintMessage), reply.Response)

	require.Equal(t, 1, f.sched.FireAll())
	notified := f.Notified()
	require.Len(t, notified, 1)
	assert.Equal(t, 2, notified[0].Quiz.Current.ID)

	reply = f.conv.Submit(ctx, "wrong")
	require.NotNil(t, reply.Quiz)
	assert.False(t, *reply.Quiz.LastCorrect)

	require.Equal(t, 1, f.sched.FireAll())
	notified = f.Notified()
	require.Len(t, notified, 2)
	assert.Equal(t, entities.QuizPhaseCompleted, notified[1].Quiz.Phase)
	assert.False(t, notified[1].Stale)

	mode, gen = f.conv.Mode()
	assert.Equal(t, ModeConversing, mode)
	assert.Equal(t, gen, notified[1].Generation)

	require.Len(t, f.results.results, 1)
	assert.Equal(t, 1, f.results.results[0].Score)
	assert.Equal(t, 2, f.results.results[0].Total)
	assert.Equal(t, testChatID, f.results.results[0].ChatID)
}

func TestConversation_QuitQuiz(t *testing.T) {
	f := newConversationFixture(t, twoQuestionOracle(), nil)
	ctx := context.Background()

	start, err := f.conv.StartQuiz(ctx)
	require.NoError(t, err)

	_, err = f.conv.AnswerQuiz(ctx, start.Generation, 1, 0)
	require.NoError(t, err)

	reply := f.conv.Submit(ctx, "Exit Quiz")
	assert.Equal(t, entities.TextResponse(QuizQuitMessage), reply.Response)

	mode, gen := f.conv.Mode()
	assert.Equal(t, ModeConversing, mode)
	assert.Greater(t, gen, start.Generation)

	assert.Zero(t, f.sched.FireAll())
	assert.Empty(t, f.Notified())
	assert.Empty(t, f.results.results)
}

func TestConversation_AnswerQuizStale(t *testing.T) {
	f := newConversationFixture(t, twoQuestionOracle(), nil)
	ctx := context.Background()

	first, err := f.conv.StartQuiz(ctx)
	require.NoError(t, err)
	second, err := f.conv.StartQuiz(ctx)
	require.NoError(t, err)
	require.Greater(t, second.Generation, first.Generation)

	reply, err := f.conv.AnswerQuiz(ctx, first.Generation, 1, 0)
	assert.ErrorIs(t, err, ErrStaleAnswer)
	assert.True(t, reply.Stale)

	_, err = f.conv.AnswerQuiz(ctx, second.Generation, 2, 0)
	assert.ErrorIs(t, err, ErrStaleAnswer)

	_, err = f.conv.AnswerQuiz(ctx, second.Generation, 1, 9)
	assert.ErrorIs(t, err, ErrInvalidOption)

	reply, err = f.conv.AnswerQuiz(ctx, second.Generation, 1, 0)
	require.NoError(t, err)
	assert.True(t, *reply.Quiz.LastCorrect)
}

func TestConversation_NextQuestion(t *testing.T) {
	f := newConversationFixture(t, twoQuestionOracle(), nil)
	ctx := context.Background()

	start, err := f.conv.StartQuiz(ctx)
	require.NoError(t, err)

	_, ok := f.conv.NextQuestion(start.Generation)
	assert.False(t, ok)

	_, err = f.conv.AnswerQuiz(ctx, start.Generation, 1, 0)
	require.NoError(t, err)

	reply, ok := f.conv.NextQuestion(start.Generation)
	require.True(t, ok)
	assert.Equal(t, 2, reply.Quiz.Current.ID)
	assert.Zero(t, f.sched.FireAll())
}

func TestConversation_StartUnavailable(t *testing.T) {
	f := newConversationFixture(t, &fakeOracle{startErr: errBoom}, nil)

	reply := f.conv.Submit(context.Background(), "start quiz")
	require.NotNil(t, reply.Quiz)
	assert.Equal(t, entities.QuizPhaseUnavailable, reply.Quiz.Phase)
	assert.False(t, reply.Stale)

	mode, gen := f.conv.Mode()
	assert.Equal(t, ModeConversing, mode)
	assert.Equal(t, gen, reply.Generation)
}

func TestConversation_AnswerUnavailable(t *testing.T) {
	oracle := twoQuestionOracle()
	oracle.answerErr = errBoom
	f := newConversationFixture(t, oracle, nil)
	ctx := context.Background()

	start, err := f.conv.StartQuiz(ctx)
	require.NoError(t, err)

	reply, err := f.conv.AnswerQuiz(ctx, start.Generation, 1, 0)
	assert.ErrorIs(t, err, ErrQuizUnavailable)
	assert.Equal(t, entities.QuizPhaseUnavailable, reply.Quiz.Phase)

	mode, _ := f.conv.Mode()
	assert.Equal(t, ModeConversing, mode)
}

func TestConversation_PanicIsRecovered(t *testing.T) {
	f := newConversationFixture(t, twoQuestionOracle(), &fakeRemedies{panic: true})

	reply := f.conv.Submit(context.Background(), "I have a headache")
	assert.Equal(t, entities.TextResponse(InternalErrorMessage), reply.Response)

	reply = f.conv.Submit(context.Background(), "tell me about tulsi")
	require.Equal(t, entities.ResponseHerb, reply.Response.Kind)
	assert.Equal(t, "tulsi", reply.Response.Herb.Key)
}

type gatedRemedies struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedRemedies) QueryRemedy(context.Context, string) (*entities.RemedyResult, error) {
	close(g.started)
	<-g.release
	return &entities.RemedyResult{Status: entities.RemedyStatusSuccess}, nil
}

func TestConversation_StaleResultAfterModeChange(t *testing.T) {
	remedies := &gatedRemedies{started: make(chan struct{}), release: make(chan struct{})}
	f := newConversationFixture(t, twoQuestionOracle(), remedies)

	done := make(chan Reply, 1)
	go func() {
		done <- f.conv.Submit(context.Background(), "I have a headache")
	}()

	select {
	case <-remedies.started:
	case <-time.After(time.Second):
		t.Fatal("submission did not reach the remedy client")
	}

	// Mode changes must not wait for the in-flight submission.
	_, err := f.conv.StartQuiz(context.Background())
	require.NoError(t, err)

	close(remedies.release)

	select {
	case reply := <-done:
		assert.True(t, reply.Stale)
	case <-time.After(time.Second):
		t.Fatal("submission did not finish")
	}
}
