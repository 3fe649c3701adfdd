// Package backend is the HTTP client of the remedy and quiz service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

const (
	statusSuccess = "success"
	maxErrorBody  = 512
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrServiceFailure   = errors.New("service reported failure")
	ErrUnavailable      = errors.New("backend temporarily unavailable")
)

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Client talks to the remedy and quiz service. Every call goes through a
// circuit breaker so a dead backend fails fast.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient creates a new Client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	bc := cfg.Breaker
	if bc == (BreakerConfig{}) {
		bc = DefaultBreakerConfig()
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "backend",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// Cancelled requests are not counted as failures.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		logger:  logger,
	}
}

// State reports the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.cb.State()
}

type queryRequest struct {
	UserInput string `json:"user_input"`
}

// QueryRemedy asks the service for remedies matching a symptom description.
// A "fail" status is not an error: the result carries the service message.
func (c *Client) QueryRemedy(ctx context.Context, text string) (*entities.RemedyResult, error) {
	var res entities.RemedyResult
	if err := c.do(ctx, http.MethodPost, "/query", nil, queryRequest{UserInput: text}, &res); err != nil {
		return nil, fmt.Errorf("query remedy: %w", err)
	}
	return &res, nil
}

type quizStartResponse struct {
	Status         string                 `json:"status"`
	Error          string                 `json:"error"`
	Question       *entities.QuizQuestion `json:"question"`
	TotalQuestions int                    `json:"total_questions"`
}

// StartQuiz fetches the first quiz question.
func (c *Client) StartQuiz(ctx context.Context) (*entities.QuizStart, error) {
	var res quizStartResponse
	if err := c.do(ctx, http.MethodGet, "/quiz/start", nil, nil, &res); err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}
	if res.Status != statusSuccess {
		return nil, fmt.Errorf("start quiz: %w: %s", ErrServiceFailure, res.Error)
	}

	return &entities.QuizStart{
		Question:       res.Question,
		TotalQuestions: res.TotalQuestions,
	}, nil
}

type quizAnswerRequest struct {
	QuestionID     int    `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

type quizAnswerResponse struct {
	Status       string                 `json:"status"`
	Error        string                 `json:"error"`
	Correct      bool                   `json:"correct"`
	Explanation  string                 `json:"explanation"`
	NextQuestion *entities.QuizQuestion `json:"next_question"`
}

// SubmitAnswer sends the selected option and returns the verdict.
func (c *Client) SubmitAnswer(ctx context.Context, questionID int, option string) (*entities.QuizAnswer, error) {
	req := quizAnswerRequest{QuestionID: questionID, SelectedOption: option}

	var res quizAnswerResponse
	if err := c.do(ctx, http.MethodPost, "/quiz/answer", nil, req, &res); err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}
	if res.Status != statusSuccess {
		return nil, fmt.Errorf("submit answer: %w: %s", ErrServiceFailure, res.Error)
	}

	return &entities.QuizAnswer{
		Correct:     res.Correct,
		Explanation: res.Explanation,
		Next:        res.NextQuestion,
	}, nil
}

// ListHerbs returns a page of herb summaries.
func (c *Client) ListHerbs(ctx context.Context, skip, limit int) ([]entities.HerbSummary, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var herbs []entities.HerbSummary
	if err := c.do(ctx, http.MethodGet, "/herbs/", q, nil, &herbs); err != nil {
		return nil, fmt.Errorf("list herbs: %w", err)
	}
	return herbs, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, path, query, body, out)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.logger.Warn("backend request rejected by circuit breaker",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return err
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, res.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
