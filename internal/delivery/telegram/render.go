package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
	"github.com/aliskhannn/ayurbot/internal/service"
)

const (
	progressBarLength = 10
	msgQuizLoading    = "⏳ Loading the quiz..."
	msgQuizFailed     = "😔 The quiz is unavailable right now. Please try again later."
)

// renderQuiz renders a quiz state and the buttons that belong to it.
// generation is stamped into the buttons so presses on old messages can be told apart.
func renderQuiz(st entities.QuizState, generation uint64) (string, *tgbotapi.InlineKeyboardMarkup) {
	switch st.Phase {
	case entities.QuizPhaseLoading:
		return md(msgQuizLoading), nil

	case entities.QuizPhaseInProgress:
		if st.Current == nil {
			return md(msgQuizLoading), nil
		}
		kb := buildQuizAnswerKeyboard(st.Current, generation)
		return formatQuizQuestion(st), &kb

	case entities.QuizPhaseExplanation:
		kb := buildQuizNextKeyboard(generation)
		return formatQuizExplanation(st), &kb

	case entities.QuizPhaseCompleted:
		kb := buildQuizResultKeyboard()
		return formatQuizResult(st), &kb

	default:
		kb := buildQuizRetryKeyboard()
		return md(msgQuizFailed), &kb
	}
}

// buildProgressBar builds a text progress bar like [███░░░░░░░].
func buildProgressBar(progress float64, length int) string {
	filled := int(progress * float64(length))
	if filled < 0 {
		filled = 0
	}
	if filled > length {
		filled = length
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
	return fmt.Sprintf("[%s]", bar)
}

// formatQuizQuestion formats a quiz question (MarkdownV2 safe for question text).
func formatQuizQuestion(st entities.QuizState) string {
	q := st.Current

	header := fmt.Sprintf("Question %d", q.ID)
	if st.TotalQuestions > 0 {
		header = fmt.Sprintf("Question %d of %d", q.ID, st.TotalQuestions)
	}

	return fmt.Sprintf(
		"%s\n%s\n\n%s",
		md(header),
		md(buildProgressBar(st.Progress(), progressBarLength)),
		bold(q.Question),
	)
}

// formatQuizExplanation formats feedback for a graded answer.
func formatQuizExplanation(st entities.QuizState) string {
	var sb strings.Builder

	if st.Current != nil {
		sb.WriteString(bold(st.Current.Question))
		sb.WriteString("\n\n")
	}

	if st.LastCorrect != nil && *st.LastCorrect {
		sb.WriteString(md("✅ Correct!"))
	} else {
		sb.WriteString(md("❌ Not quite."))
	}

	if st.Explanation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(italic(st.Explanation))
	}

	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Score: %d/%d", st.Score, st.Answered)))

	return sb.String()
}

// formatQuizResult formats quiz results (MarkdownV2 safe).
func formatQuizResult(st entities.QuizState) string {
	pct, verdict := service.Verdict(st.Score, st.TotalQuestions)

	return fmt.Sprintf(
		"%s\n\n%s %s\n%s\n\n%s",
		bold("🎉 Quiz complete!"),
		md("Result:"),
		bold(fmt.Sprintf("%d/%d (%d%%)", st.Score, st.TotalQuestions, pct)),
		md(buildProgressBar(float64(pct)/100, progressBarLength)),
		md(verdict),
	)
}
