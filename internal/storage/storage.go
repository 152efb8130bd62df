package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/FJavierRG/mansion-ambar/pkg/engine"
)

// ErrNotFound is returned when no save exists for the requested id.
var ErrNotFound = errors.New("save not found")

// Storage persists session save documents.
type Storage interface {
	SaveSession(ctx context.Context, id uuid.UUID, s *engine.SaveState) error
	LoadSession(ctx context.Context, id uuid.UUID) (*engine.SaveState, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	ListSessions(ctx context.Context) ([]uuid.UUID, error)

	Ping(ctx context.Context) error
	Close() error
}
