package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, "local", cfg.Env)
	assert.False(t, cfg.DB.Enabled())
	assert.Equal(t, int32(20), cfg.DB.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Location.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Quiz.ExplanationDelay)
	assert.Equal(t, QuizSourceLocal, cfg.Quiz.Source)
	assert.Equal(t, 0.8, cfg.Backend.Breaker.FailureThreshold)
	assert.Equal(t, 720*time.Hour, cfg.Transcript.Retention)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_API_TOKEN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestLoad_QuizSource(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("QUIZ_SOURCE", "backend")
	t.Setenv("BACKEND_URL", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidQuizSource)

	t.Setenv("BACKEND_URL", "http://localhost:8000")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.URL)

	t.Setenv("QUIZ_SOURCE", "carrier pigeon")
	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalidQuizSource)
}
