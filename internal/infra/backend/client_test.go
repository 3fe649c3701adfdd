package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL: srv.URL + "/",
		Timeout: 2 * time.Second,
		Breaker: BreakerConfig{
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          time.Minute,
			FailureThreshold: 0.5,
			MinRequests:      2,
		},
	}, zap.NewNop())
}

func TestClient_QueryRemedy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "I have a headache", body["user_input"])

		_, _ = w.Write([]byte(`{
			"status": "success",
			"message": "Here are your Ayurvedic remedy details.",
			"data": [{
				"symptom": "headache",
				"remedies": ["Brahmi", "Peppermint oil"],
				"description": "Calms the mind",
				"usage": "Apply to temples",
				"precautions": "Avoid eyes",
				"image_url": ""
			}]
		}`))
	})

	res, err := c.QueryRemedy(context.Background(), "I have a headache")
	require.NoError(t, err)
	assert.True(t, res.OK())
	require.Len(t, res.Data, 1)
	assert.Equal(t, []string{"Brahmi", "Peppermint oil"}, res.Data[0].Remedies)
}

func TestClient_QueryRemedyFailStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"Sorry, I could not find a specific remedy.","data":[]}`))
	})

	res, err := c.QueryRemedy(context.Background(), "xyz")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "Sorry, I could not find a specific remedy.", res.Message)
}

func TestClient_Quiz(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quiz/start":
			_, _ = w.Write([]byte(`{"status":"success","total_questions":15,"question":{"id":1,"question":"Q1","options":["A","B"],"answer":"B","explanation":"E1"}}`))
		case "/quiz/answer":
			var body quizAnswerRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body.QuestionID != 1 {
				_, _ = w.Write([]byte(`{"status":"fail","error":"Question not found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"status":"success","correct":true,"explanation":"E1","next_question":null}`))
		default:
			http.NotFound(w, r)
		}
	})

	start, err := c.StartQuiz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15, start.TotalQuestions)
	assert.Equal(t, "Q1", start.Question.Question)

	ans, err := c.SubmitAnswer(context.Background(), 1, "B")
	require.NoError(t, err)
	assert.True(t, ans.Correct)
	assert.Nil(t, ans.Next)

	_, err = c.SubmitAnswer(context.Background(), 7, "B")
	assert.ErrorIs(t, err, ErrServiceFailure)
}

func TestClient_ListHerbs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/herbs/", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("skip"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id":6,"name":"Neem","properties":"Bitter","usage":"Skin"}]`))
	})

	herbs, err := c.ListHerbs(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, herbs, 1)
	assert.Equal(t, "Neem", herbs[0].Name)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	for range 2 {
		_, err := c.QueryRemedy(context.Background(), "x")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := c.QueryRemedy(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDisabled_QueryRemedy(t *testing.T) {
	res, err := Disabled{}.QueryRemedy(context.Background(), "headache")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
