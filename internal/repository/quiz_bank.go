package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/ayurbot/assets"
	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrEmptyQuizBank    = errors.New("quiz bank is empty")
)

type bankQuestion struct {
	entities.QuizQuestion
	Answer string `json:"answer"`
}

// QuizBank is an in-memory question bank that grades answers locally.
// Questions are served in file order.
type QuizBank struct {
	questions []bankQuestion
	index     map[int]int
}

// NewQuizBank loads questions from the JSON file at path, or from the
// embedded dataset when path is empty.
func NewQuizBank(path string) (*QuizBank, error) {
	var wrapper struct {
		Questions []bankQuestion `json:"questions"`
	}
	if err := readJSON(path, assets.QuizFile, &wrapper); err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	b := &QuizBank{
		questions: wrapper.Questions,
		index:     make(map[int]int, len(wrapper.Questions)),
	}
	for i, q := range wrapper.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, err
		}
		if _, ok := b.index[q.ID]; ok {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		b.index[q.ID] = i
	}

	return b, nil
}

func validateQuestion(q bankQuestion) error {
	if q.ID <= 0 {
		return fmt.Errorf("question %q: id must be positive", q.Question)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if _, ok := seen[o]; ok {
			return fmt.Errorf("question %d: duplicate option %q", q.ID, o)
		}
		seen[o] = struct{}{}
	}
	if _, ok := seen[q.Answer]; !ok {
		return fmt.Errorf("question %d: answer %q is not an option", q.ID, q.Answer)
	}
	return nil
}

// StartQuiz returns the first question and the total number of questions.
func (b *QuizBank) StartQuiz(_ context.Context) (*entities.QuizStart, error) {
	if len(b.questions) == 0 {
		return nil, ErrEmptyQuizBank
	}
	return &entities.QuizStart{
		Question:       b.public(0),
		TotalQuestions: len(b.questions),
	}, nil
}

// SubmitAnswer grades option for the question with the given id.
func (b *QuizBank) SubmitAnswer(_ context.Context, questionID int, option string) (*entities.QuizAnswer, error) {
	idx, ok := b.index[questionID]
	if !ok {
		return nil, ErrQuestionNotFound
	}

	q := b.questions[idx]
	ans := &entities.QuizAnswer{
		Correct:     q.Answer == option,
		Explanation: q.Explanation,
	}
	if idx+1 < len(b.questions) {
		ans.Next = b.public(idx + 1)
	}

	return ans, nil
}

func (b *QuizBank) public(idx int) *entities.QuizQuestion {
	q := b.questions[idx].QuizQuestion
	q.Options = append([]string(nil), q.Options...)
	return &q
}
