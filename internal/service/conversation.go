package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const (
	InternalErrorMessage = "Something went wrong. Please try again."
	QuizHintMessage      = "Pick one of the options, or type \"quit\" to leave the quiz."
	QuizQuitMessage      = "Quiz ended. Ask me anything about Ayurveda!"

	saveResultTimeout = 5 * time.Second
)

var ErrStaleAnswer = errors.New("answer does not match the current question")

var quitCommands = []string{"quit", "exit quiz"}

// Mode is what a conversation does with free-text input.
type Mode int

const (
	ModeConversing Mode = iota
	ModeQuizzing
)

func (m Mode) String() string {
	if m == ModeQuizzing {
		return "quizzing"
	}
	return "conversing"
}

// Reply is the outcome of a single interaction. Exactly one of Response and
// Quiz is meaningful: Quiz is set when the reply is about the quiz.
type Reply struct {
	Response   entities.Response
	Quiz       *entities.QuizState
	Generation uint64
	// Stale is set when the mode changed while the reply was being computed.
	// Stale replies must not be shown.
	Stale bool
}

// ConversationDeps holds the collaborators shared by all conversations.
type ConversationDeps struct {
	Router           *IntentRouter
	Oracle           QuizOracle
	Transcript       *TranscriptService
	Results          QuizResultRepository
	ExplanationDelay time.Duration
	Scheduler        Scheduler
	Logger           *zap.Logger
}

// Conversation is the per-chat controller that hands input either to the
// intent router or to a running quiz.
type Conversation struct {
	chatID   int64
	deps     ConversationDeps
	notifier func(Reply)

	// submitMu serialises free-text submissions.
	submitMu sync.Mutex

	mu         sync.Mutex
	mode       Mode
	generation uint64
	quiz       *QuizSession
}

// NewConversation creates a conversation for a chat. notifier receives quiz
// replies produced outside of a request, such as timed advances.
func NewConversation(chatID int64, deps ConversationDeps, notifier func(Reply)) *Conversation {
	return &Conversation{
		chatID:   chatID,
		deps:     deps,
		notifier: notifier,
	}
}

// Mode returns the current mode and generation.
func (c *Conversation) Mode() (Mode, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode, c.generation
}

// Submit handles one free-text message.
func (c *Conversation) Submit(ctx context.Context, text string) (reply Reply) {
	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	mode, gen := c.Mode()

	defer func() {
		if r := recover(); r != nil {
			c.deps.Logger.Error("panic in submission",
				zap.Int64("chat_id", c.chatID),
				zap.Any("panic", r),
			)
			reply = Reply{
				Response:   entities.TextResponse(InternalErrorMessage),
				Generation: gen,
				Stale:      c.isStale(gen),
			}
		}
	}()

	if mode == ModeQuizzing {
		return c.submitQuizText(ctx, text, gen)
	}

	intent := c.deps.Router.Resolve(text)
	if intent.Kind == entities.IntentQuizStart {
		reply, err := c.StartQuiz(ctx)
		if err != nil {
			c.deps.Logger.Warn("quiz start failed", zap.Int64("chat_id", c.chatID), zap.Error(err))
		}
		return reply
	}

	resp, err := c.deps.Router.Execute(WithChatID(ctx, c.chatID), intent)
	if err != nil {
		c.deps.Logger.Error("execute intent",
			zap.Int64("chat_id", c.chatID),
			zap.String("kind", string(intent.Kind)),
			zap.Error(err),
		)
		resp = entities.TextResponse(InternalErrorMessage)
	}

	c.record(ctx, entities.SenderUser, text)
	c.record(ctx, entities.SenderBot, SpeechText(resp))

	return Reply{Response: resp, Generation: gen, Stale: c.isStale(gen)}
}

func (c *Conversation) submitQuizText(ctx context.Context, text string, gen uint64) Reply {
	t := strings.TrimSpace(text)
	for _, cmd := range quitCommands {
		if strings.EqualFold(t, cmd) {
			return c.QuitQuiz()
		}
	}

	c.mu.Lock()
	quiz := c.quiz
	c.mu.Unlock()

	if quiz != nil {
		st := quiz.State()
		if st.Phase == entities.QuizPhaseInProgress && st.Current != nil {
			for i, opt := range st.Current.Options {
				if strings.EqualFold(t, opt) {
					reply, err := c.AnswerQuiz(ctx, gen, st.Current.ID, i)
					if err != nil {
						c.deps.Logger.Warn("quiz answer failed", zap.Int64("chat_id", c.chatID), zap.Error(err))
					}
					return reply
				}
			}
		}
	}

	return Reply{
		Response:   entities.TextResponse(QuizHintMessage),
		Generation: gen,
		Stale:      c.isStale(gen),
	}
}

// StartQuiz switches the conversation to quiz mode and loads the first
// question. A running quiz is discarded.
func (c *Conversation) StartQuiz(ctx context.Context) (Reply, error) {
	c.mu.Lock()
	if c.quiz != nil {
		c.quiz.Close()
	}
	c.generation++
	gen := c.generation
	c.mode = ModeQuizzing

	var session *QuizSession
	session = NewQuizSession(c.deps.Oracle, QuizSessionConfig{
		ExplanationDelay: c.deps.ExplanationDelay,
		Scheduler:        c.deps.Scheduler,
		OnAdvance: func(st entities.QuizState) {
			c.onAdvance(session, st)
		},
	})
	c.quiz = session
	c.mu.Unlock()

	st, err := session.Start(ctx)
	return c.quizReply(session, st, gen), err
}

// AnswerQuiz submits the option at optionIdx for the question the user saw.
// generation and questionID identify that question.
func (c *Conversation) AnswerQuiz(ctx context.Context, generation uint64, questionID, optionIdx int) (Reply, error) {
	c.mu.Lock()
	quiz, gen := c.quiz, c.generation
	c.mu.Unlock()

	if quiz == nil || gen != generation {
		return Reply{Generation: generation, Stale: true}, ErrStaleAnswer
	}

	st := quiz.State()
	if st.Current == nil || st.Current.ID != questionID {
		return Reply{Quiz: &st, Generation: gen}, ErrStaleAnswer
	}
	if optionIdx < 0 || optionIdx >= len(st.Current.Options) {
		return Reply{Quiz: &st, Generation: gen}, ErrInvalidOption
	}

	st, err := quiz.SubmitAnswer(ctx, st.Current.Options[optionIdx])
	if err != nil && !errors.Is(err, ErrQuizUnavailable) {
		return Reply{Quiz: &st, Generation: gen, Stale: c.isStale(gen)}, err
	}

	return c.quizReply(quiz, st, gen), err
}

// NextQuestion skips the rest of the explanation delay.
func (c *Conversation) NextQuestion(generation uint64) (Reply, bool) {
	c.mu.Lock()
	quiz, gen := c.quiz, c.generation
	c.mu.Unlock()

	if quiz == nil || gen != generation {
		return Reply{Generation: generation, Stale: true}, false
	}

	st, ok := quiz.Advance()
	if !ok {
		return Reply{Quiz: &st, Generation: gen}, false
	}

	return c.quizReply(quiz, st, gen), true
}

// QuitQuiz leaves quiz mode. It never waits for in-flight submissions.
func (c *Conversation) QuitQuiz() Reply {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quiz != nil {
		c.quiz.Close()
		c.quiz = nil
	}
	if c.mode == ModeQuizzing {
		c.mode = ModeConversing
		c.generation++
	}

	return Reply{
		Response:   entities.TextResponse(QuizQuitMessage),
		Generation: c.generation,
	}
}

// Close releases the running quiz, if any.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quiz != nil {
		c.quiz.Close()
		c.quiz = nil
	}
}

func (c *Conversation) onAdvance(session *QuizSession, st entities.QuizState) {
	c.mu.Lock()
	gen := c.generation
	current := c.quiz == session
	c.mu.Unlock()

	if !current {
		return
	}

	reply := c.quizReply(session, st, gen)
	if c.notifier != nil && !reply.Stale {
		c.notifier(reply)
	}
}

// quizReply wraps a quiz state. When the quiz reached a terminal phase the
// conversation goes back to conversing and the reply carries the new generation.
func (c *Conversation) quizReply(session *QuizSession, st entities.QuizState, gen uint64) Reply {
	if !st.Phase.Terminal() {
		return Reply{Quiz: &st, Generation: gen, Stale: c.isStale(gen)}
	}

	c.mu.Lock()
	if c.quiz != session || c.generation != gen {
		c.mu.Unlock()
		return Reply{Quiz: &st, Generation: gen, Stale: true}
	}
	c.quiz = nil
	c.mode = ModeConversing
	c.generation++
	newGen := c.generation
	c.mu.Unlock()

	if st.Phase == entities.QuizPhaseCompleted {
		c.saveResult(st)
	}

	return Reply{Quiz: &st, Generation: newGen}
}

func (c *Conversation) saveResult(st entities.QuizState) {
	if c.deps.Results == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveResultTimeout)
	defer cancel()

	res := entities.NewQuizResult(c.chatID, st.Score, st.TotalQuestions)
	if err := c.deps.Results.Save(ctx, res); err != nil {
		c.deps.Logger.Error("failed to save quiz result",
			zap.Int64("chat_id", c.chatID),
			zap.Error(fmt.Errorf("save quiz result: %w", err)),
		)
	}
}

func (c *Conversation) record(ctx context.Context, sender entities.Sender, text string) {
	if c.deps.Transcript == nil {
		return
	}
	if err := c.deps.Transcript.Record(ctx, c.chatID, sender, text); err != nil {
		c.deps.Logger.Warn("failed to record transcript",
			zap.Int64("chat_id", c.chatID),
			zap.Error(err),
		)
	}
}

func (c *Conversation) isStale(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation != gen
}
