package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/faultscope/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no parse record matches a lookup
var ErrNotFound = errors.New("recording not found")

// RecordingRepository defines the interface for parse record operations
type RecordingRepository interface {
	Create(ctx context.Context, recording *models.Recording) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recording, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Recording, error)
}
