package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FJavierRG/mansion-ambar/pkg/engine"
)

// FileStorage implements Storage as one JSON document per save under a
// data directory. Meant for local play without a Redis instance.
type FileStorage struct {
	dataDir string
	logger  *slog.Logger
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates a file storage instance rooted at dataDir.
func NewFileStorage(dataDir string, logger *slog.Logger) *FileStorage {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileStorage{dataDir: dataDir, logger: logger}
}

func (f *FileStorage) savePath(id uuid.UUID) string {
	return filepath.Join(f.dataDir, "saves", id.String()+".json")
}

func (f *FileStorage) Ping(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(f.dataDir, "saves"), 0o755); err != nil {
		return fmt.Errorf("data dir not writable: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error { return nil }

func (f *FileStorage) SaveSession(ctx context.Context, id uuid.UUID, s *engine.SaveState) error {
	s.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	path := f.savePath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create save dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.logger.Error("Failed to write save file", "uuid", id, "error", err)
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

func (f *FileStorage) LoadSession(ctx context.Context, id uuid.UUID) (*engine.SaveState, error) {
	data, err := os.ReadFile(f.savePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	var s engine.SaveState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save: %w", err)
	}
	return &s, nil
}

func (f *FileStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	err := os.Remove(f.savePath(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

func (f *FileStorage) ListSessions(ctx context.Context) ([]uuid.UUID, error) {
	dir := filepath.Join(f.dataDir, "saves")
	var ids []uuid.UUID
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		id, perr := uuid.Parse(strings.TrimSuffix(d.Name(), ".json"))
		if perr != nil {
			f.logger.Warn("Skipping malformed save file", "file", d.Name())
			return nil
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	return ids, nil
}
