// Package npc implements the per-NPC finite-state machine: named states
// with guarded transitions, per-state completion, and the spawn decision
// that picks which variant of an NPC appears when a zone is populated.
package npc

import (
	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// Completion tracks how far the player has taken a state.
type Completion string

const (
	NotStarted Completion = "not_started"
	InProgress Completion = "in_progress"
	Completed  Completion = "completed"
	Locked     Completion = "locked"
)

// Guard is a transition or completion predicate. Guards evaluated during
// a spawn pass receive nil player and zone; guards that only read
// persistent event data work in both contexts.
type Guard func(p *actor.Player, z world.Zone) bool

// Transition moves an NPC from one state to another when its guard passes.
type Transition struct {
	Target string
	Guard  Guard
	Desc   string
}

// SpawnPredicate decides whether a floor-unset state may appear on the
// given floor. floor is -1 outside dungeons.
type SpawnPredicate func(floor int, events *event.Registry) bool

// DialogFunc produces the conversation content for a state. Called each
// time the dialog is needed so texts can reflect current state.
type DialogFunc func() dialog.Content

// StateConfig describes one state of an NPC: where it belongs, how it
// looks, what it says, and where it can go next.
type StateConfig struct {
	ID       string
	ZoneType string
	// Floor pins a dungeon state to one floor. Unset means the state is
	// spawn-eligible only through its Spawn predicate.
	Floor    *int
	Position *world.Point
	Glyph    rune
	Color    string
	Blocks   bool
	// Dialog is the full conversation; CompletedDialog the short variant
	// shown once the state is resolved.
	Dialog          DialogFunc
	CompletedDialog DialogFunc
	// Completion gates auto-completion on dialog close. States without
	// one never auto-complete.
	Completion Guard
	Spawn      SpawnPredicate
	// SpawnNear names a companion NPC this state spawns adjacent to.
	// If the companion is absent from the zone, this NPC stays out too.
	SpawnNear   string
	Transitions []Transition
}

// FloorAt is a convenience for building pinned-floor configs.
func FloorAt(n int) *int { return &n }

// State is the serialized form of the machine, embedded in the save
// document. Keys are canonical (lowercased) NPC names.
type State struct {
	CurrentStates   map[string]string                `json:"current_states"`
	StateCompletion map[string]map[string]Completion `json:"state_completion"`
}
