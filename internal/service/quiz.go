package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const DefaultExplanationDelay = 3 * time.Second

var (
	ErrQuizUnavailable   = errors.New("quiz unavailable")
	ErrQuizClosed        = errors.New("quiz session closed")
	ErrInvalidTransition = errors.New("invalid quiz transition")
	ErrAnswerPending     = errors.New("answer already submitted")
	ErrInvalidOption     = errors.New("option is not offered")
)

// Scheduler runs f once after d. The returned function cancels the call and
// reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// SystemScheduler schedules with time.AfterFunc.
var SystemScheduler Scheduler = timerScheduler{}

// QuizSessionConfig configures a QuizSession.
type QuizSessionConfig struct {
	ExplanationDelay time.Duration
	Scheduler        Scheduler
	// OnAdvance receives the state reached after an explanation timer fires.
	OnAdvance func(entities.QuizState)
}

// QuizSession drives a single quiz through its phases:
// loading -> in_progress <-> showing_explanation -> completed.
// Any oracle failure moves the session to unavailable.
type QuizSession struct {
	oracle    QuizOracle
	delay     time.Duration
	scheduler Scheduler
	onAdvance func(entities.QuizState)

	mu      sync.Mutex
	state   entities.QuizState
	next    *entities.QuizQuestion
	pending bool
	stop    func() bool
	closed  bool
}

// NewQuizSession creates a session in the loading phase.
func NewQuizSession(oracle QuizOracle, cfg QuizSessionConfig) *QuizSession {
	if cfg.ExplanationDelay <= 0 {
		cfg.ExplanationDelay = DefaultExplanationDelay
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = SystemScheduler
	}

	return &QuizSession{
		oracle:    oracle,
		delay:     cfg.ExplanationDelay,
		scheduler: cfg.Scheduler,
		onAdvance: cfg.OnAdvance,
		state:     entities.QuizState{Phase: entities.QuizPhaseLoading},
	}
}

// State returns a snapshot of the session.
func (s *QuizSession) State() entities.QuizState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start fetches the first question from the oracle.
func (s *QuizSession) Start(ctx context.Context) (entities.QuizState, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s.State(), ErrQuizClosed
	}
	if s.state.Phase != entities.QuizPhaseLoading || s.pending {
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidTransition
	}
	s.pending = true
	s.mu.Unlock()

	start, err := s.oracle.StartQuiz(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if s.closed {
		return s.state, ErrQuizClosed
	}
	if err != nil {
		s.state.Phase = entities.QuizPhaseUnavailable
		return s.state, fmt.Errorf("%w: start: %w", ErrQuizUnavailable, err)
	}
	if start == nil || start.Question == nil || start.TotalQuestions <= 0 {
		s.state.Phase = entities.QuizPhaseUnavailable
		return s.state, fmt.Errorf("%w: no questions", ErrQuizUnavailable)
	}

	s.state = entities.QuizState{
		Current:        start.Question,
		TotalQuestions: start.TotalQuestions,
		Phase:          entities.QuizPhaseInProgress,
	}

	return s.state, nil
}

// SubmitAnswer grades option against the current question and schedules the
// move to the next one.
func (s *QuizSession) SubmitAnswer(ctx context.Context, option string) (entities.QuizState, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return s.State(), ErrQuizClosed
	case s.state.Phase != entities.QuizPhaseInProgress:
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidTransition
	case s.pending:
		st := s.state
		s.mu.Unlock()
		return st, ErrAnswerPending
	case !s.state.Current.HasOption(option):
		st := s.state
		s.mu.Unlock()
		return st, ErrInvalidOption
	}
	s.pending = true
	questionID := s.state.Current.ID
	s.mu.Unlock()

	ans, err := s.oracle.SubmitAnswer(ctx, questionID, option)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if s.closed {
		return s.state, ErrQuizClosed
	}
	if err != nil {
		s.state.Phase = entities.QuizPhaseUnavailable
		return s.state, fmt.Errorf("%w: answer: %w", ErrQuizUnavailable, err)
	}

	correct := ans.Correct
	s.state.Answered++
	if correct {
		s.state.Score++
	}
	s.state.LastCorrect = &correct
	s.state.Explanation = ans.Explanation
	s.state.Phase = entities.QuizPhaseExplanation
	s.next = ans.Next
	s.stop = s.scheduler.AfterFunc(s.delay, s.advanceFromTimer)

	return s.state, nil
}

// Advance moves past the explanation right away. It returns false when the
// session is not showing an explanation.
func (s *QuizSession) Advance() (entities.QuizState, bool) {
	s.mu.Lock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	st, ok := s.advanceLocked()
	s.mu.Unlock()
	return st, ok
}

func (s *QuizSession) advanceFromTimer() {
	s.mu.Lock()
	s.stop = nil
	st, ok := s.advanceLocked()
	cb := s.onAdvance
	s.mu.Unlock()

	if ok && cb != nil {
		cb(st)
	}
}

func (s *QuizSession) advanceLocked() (entities.QuizState, bool) {
	if s.closed || s.state.Phase != entities.QuizPhaseExplanation {
		return s.state, false
	}

	s.state.LastCorrect = nil
	s.state.Explanation = ""
	s.state.Current = s.next
	s.next = nil

	if s.state.Current == nil {
		s.state.Phase = entities.QuizPhaseCompleted
	} else {
		s.state.Phase = entities.QuizPhaseInProgress
	}

	return s.state, true
}

// Close cancels a pending advance. A closed session ignores timers and
// rejects further input.
func (s *QuizSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// Progress returns how far through the quiz the session is, in [0,1].
func (s *QuizSession) Progress() float64 {
	return s.State().Progress()
}

// Verdict returns the rounded score percentage and a closing message.
func Verdict(score, total int) (int, string) {
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(score) / float64(total) * 100))
	}

	switch {
	case pct >= 80:
		return pct, "🌟 Excellent knowledge of Ayurveda!"
	case pct >= 60:
		return pct, "👍 Good understanding!"
	default:
		return pct, "📚 Keep learning about Ayurveda!"
	}
}
