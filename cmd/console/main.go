package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/FJavierRG/mansion-ambar/internal/config"
	"github.com/FJavierRG/mansion-ambar/internal/logger"
	"github.com/FJavierRG/mansion-ambar/internal/storage"
	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/content"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	store := openStorage(cfg, log)
	defer func() {
		_ = store.Close() // Ignore error in defer
	}()

	player, err := actor.NewPlayer(&actor.PlayerSpec{
		Name:  "Adventurer",
		Level: 1,
		Gold:  0,
		HP:    30,
		MaxHP: 30,
		AC:    12,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create player: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(player, log)
	if failed := eng.RegisterModules(content.Modules()); len(failed) > 0 {
		fmt.Fprintf(os.Stderr, "Some content failed to load: %v\n", failed)
	}

	if raw := os.Getenv("SAVE_ID"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid SAVE_ID: %v\n", err)
			os.Exit(1)
		}
		save, err := store.LoadSession(context.Background(), id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load save %s: %v\n", id, err)
			os.Exit(1)
		}
		if err := eng.Restore(*save); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to restore save: %v\n", err)
			os.Exit(1)
		}
		log.Info("save restored", "save_id", id)
	}

	p := tea.NewProgram(NewGameUI(eng, store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// openStorage prefers Redis when it answers a ping, falling back to the
// file store so the game always runs locally.
func openStorage(cfg *config.Config, log *slog.Logger) storage.Storage {
	rs := storage.NewRedisStorage(cfg.RedisURL, cfg.SaveTTL, log)
	if err := rs.Ping(context.Background()); err == nil {
		log.Info("using redis storage", "addr", cfg.RedisURL)
		return rs
	}
	_ = rs.Close()

	fs := storage.NewFileStorage(cfg.DataDir, log)
	if err := fs.Ping(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "No usable storage: %v\n", err)
		os.Exit(1)
	}
	log.Info("using file storage", "dir", cfg.DataDir)
	return fs
}
