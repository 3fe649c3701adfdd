package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func healthy(context.Context) error { return nil }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "no checks",
			checks:     map[string]Checker{},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{},
		},
		{
			name: "all healthy",
			checks: map[string]Checker{
				"postgres": CheckerFunc(healthy),
				"backend":  CheckerFunc(healthy),
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"postgres": "ok", "backend": "ok"},
		},
		{
			name: "backend breaker open",
			checks: map[string]Checker{
				"postgres": CheckerFunc(healthy),
				"backend": CheckerFunc(func(context.Context) error {
					return errors.New("circuit open")
				}),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"postgres": "ok", "backend": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(zap.NewNop(), tt.checks)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			h.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

			got := make(map[string]string, len(body))
			for k, v := range body {
				got[k] = v.Status
			}
			assert.Equal(t, tt.wantBody, got)
		})
	}
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", zap.NewNop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
