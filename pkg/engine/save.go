package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/npc"
)

// SaveState is the serialized session document. Everything narrative
// lives under events and npc_states; content callbacks are rebound by
// re-registering content modules before Restore.
type SaveState struct {
	ID        uuid.UUID         `json:"id"`
	Events    event.State       `json:"events"`
	NPCStates npc.State         `json:"npc_states"`
	Player    *actor.PlayerSpec `json:"player,omitempty"`
	SavedAt   time.Time         `json:"saved_at"`
}

// Snapshot captures the session's persistent state.
func (e *Engine) Snapshot() SaveState {
	s := SaveState{
		ID:        e.ID,
		Events:    e.Events.Snapshot(),
		NPCStates: e.NPCs.Snapshot(),
		SavedAt:   time.Now().UTC(),
	}
	if e.Player != nil {
		s.Player = e.Player.Spec
	}
	return s
}

// Restore applies a saved document to a session whose content modules
// are already registered. Saved events and NPC states that no module
// registers are kept for identity but cannot fire.
func (e *Engine) Restore(s SaveState) error {
	if s.ID != uuid.Nil {
		e.ID = s.ID
	}
	e.Events.Restore(s.Events)
	e.NPCs.Restore(s.NPCStates)
	if s.Player != nil {
		p, err := actor.NewPlayer(s.Player)
		if err != nil {
			return err
		}
		e.Player = p
	}
	return nil
}

// Reset wipes all narrative progress. Event and state definitions stay
// registered; statuses, completions, counters, and the data store reset.
func (e *Engine) Reset() {
	e.Events.Clear()
	e.NPCs.Clear()
	e.Dialog.ClearQueue()
	e.Dialog.Close()
	e.Messages = nil
}
