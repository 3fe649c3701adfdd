package backend

import (
	"context"
	"errors"

	"github.com/aliskhannn/ayurbot/internal/domain/entities"
)

var ErrNotConfigured = errors.New("backend url is not configured")

// Disabled answers remedy queries when no backend is configured.
type Disabled struct{}

func (Disabled) QueryRemedy(context.Context, string) (*entities.RemedyResult, error) {
	return nil, ErrNotConfigured
}
