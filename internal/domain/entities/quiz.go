package entities

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// QuizPhase is the state of a quiz session.
type QuizPhase string

const (
	QuizPhaseLoading     QuizPhase = "loading"             // waiting for the first question
	QuizPhaseInProgress  QuizPhase = "in_progress"         // a question is open for answering
	QuizPhaseExplanation QuizPhase = "showing_explanation" // answer graded, explanation visible
	QuizPhaseCompleted   QuizPhase = "completed"           // no questions left, score frozen
	QuizPhaseUnavailable QuizPhase = "unavailable"         // the oracle failed, session is dead
)

// Terminal reports whether no further transitions are possible.
func (p QuizPhase) Terminal() bool {
	return p == QuizPhaseCompleted || p == QuizPhaseUnavailable
}

// QuizState is a snapshot of a quiz session.
type QuizState struct {
	Current        *QuizQuestion
	TotalQuestions int
	Answered       int
	Score          int
	Phase          QuizPhase
	LastCorrect    *bool
	Explanation    string // set while the explanation is shown
}

// Progress returns the share of the quiz already behind the user, in [0,1].
func (s QuizState) Progress() float64 {
	if s.Phase == QuizPhaseCompleted {
		return 1
	}
	if s.TotalQuestions <= 0 || s.Current == nil {
		return 0
	}
	p := float64(s.Current.ID-1) / float64(s.TotalQuestions)
	return math.Max(0, math.Min(1, p))
}

// QuizResult is the final score of a completed quiz.
type QuizResult struct {
	ID          uuid.UUID
	ChatID      int64
	Score       int
	Total       int
	CompletedAt time.Time
}

// NewQuizResult creates a result for a completed quiz.
func NewQuizResult(chatID int64, score, total int) *QuizResult {
	return &QuizResult{
		ID:          uuid.New(),
		ChatID:      chatID,
		Score:       score,
		Total:       total,
		CompletedAt: time.Now(),
	}
}

// Percentage returns the rounded score percentage, 0 when there were no questions.
func (r *QuizResult) Percentage() int {
	if r.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) / float64(r.Total) * 100))
}
