package entities

// QuizQuestion is a single multiple-choice question supplied by the quiz oracle.
// The correct answer never leaves the oracle.
type QuizQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
}

// HasOption reports whether option is one of the question's options.
func (q *QuizQuestion) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// OptionIndex returns the index of option, or -1.
func (q *QuizQuestion) OptionIndex(option string) int {
	for i, o := range q.Options {
		if o == option {
			return i
		}
	}
	return -1
}

// QuizStart is what the oracle returns when a quiz begins.
type QuizStart struct {
	Question       *QuizQuestion
	TotalQuestions int
}

// QuizAnswer is the oracle's verdict on a submitted option.
// Next is nil when the quiz is over.
type QuizAnswer struct {
	Correct     bool
	Explanation string
	Next        *QuizQuestion
}
