package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionQuiz  = "quiz"
	actionHerbs = "herbs"
	actionReset = "reset"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizAnswer = "a"
	quizNext   = "next"
	quizExit   = "exit"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

var errMalformedCallback = errors.New("malformed callback data")

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// quizAnswerParams identifies the option a user tapped and the question it belonged to.
type quizAnswerParams struct {
	Generation uint64
	QuestionID int
	Option     int
}

// parseQuizAnswer reads "quiz:a:<generation>:<question>:<option>".
func parseQuizAnswer(cd callbackData) (quizAnswerParams, error) {
	if cd.Action != actionQuiz || cd.param(0) != quizAnswer || len(cd.Params) != 4 {
		return quizAnswerParams{}, fmt.Errorf("%w: %q", errMalformedCallback, cd.Raw)
	}

	gen, err1 := strconv.ParseUint(cd.Params[1], 10, 64)
	qid, err2 := strconv.Atoi(cd.Params[2])
	opt, err3 := strconv.Atoi(cd.Params[3])
	if err := errors.Join(err1, err2, err3); err != nil {
		return quizAnswerParams{}, fmt.Errorf("%w: %q: %w", errMalformedCallback, cd.Raw, err)
	}
	if qid <= 0 || opt < 0 {
		return quizAnswerParams{}, fmt.Errorf("%w: %q", errMalformedCallback, cd.Raw)
	}

	return quizAnswerParams{Generation: gen, QuestionID: qid, Option: opt}, nil
}

// parseGeneration reads the generation of "quiz:next:<generation>".
func parseGeneration(cd callbackData) (uint64, error) {
	gen, err := strconv.ParseUint(cd.param(1), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", errMalformedCallback, cd.Raw, err)
	}
	return gen, nil
}

// parsePage reads the page of "herbs:<page>".
func parsePage(cd callbackData) (int, error) {
	page, err := strconv.Atoi(cd.param(0))
	if err != nil || page < 0 {
		return 0, fmt.Errorf("%w: %q", errMalformedCallback, cd.Raw)
	}
	return page, nil
}

// buildQuizAnswerCallback builds callback data for answering a quiz question.
func buildQuizAnswerCallback(generation uint64, questionID, option int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizAnswer,
			strconv.FormatUint(generation, 10),
			strconv.Itoa(questionID),
			strconv.Itoa(option),
		},
	}.encode()
}

// buildQuizNextCallback builds callback data for skipping the explanation delay.
func buildQuizNextCallback(generation uint64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizNext, strconv.FormatUint(generation, 10)},
	}.encode()
}

// buildQuizStartCallback builds callback data for starting a quiz session.
func buildQuizStartCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizStart},
	}.encode()
}

func buildQuizExitCallback() string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizExit},
	}.encode()
}

// buildHerbsCallback builds callback data for opening a herb list page.
func buildHerbsCallback(page int) string {
	return callbackData{
		Action: actionHerbs,
		Params: []string{strconv.Itoa(page)},
	}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
