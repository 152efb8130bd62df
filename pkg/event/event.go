// Package event implements the persistent world-event registry: named
// events with conditions and actions whose outcomes survive across runs,
// plus a generic key-value store for auxiliary persistent counters.
package event

import (
	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// Status is the lifecycle state of a game event.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusTriggered Status = "triggered"
	// StatusCompleted is reserved. It decodes from old saves but nothing
	// in this module produces it.
	StatusCompleted Status = "completed"
)

// Condition gates an event. Check receives the player and the zone they
// are in; Desc is used for diagnostics only.
type Condition struct {
	Check func(p *actor.Player, z world.Zone) bool
	Desc  string
}

// Action is a side effect executed when an event triggers.
type Action struct {
	Run  func(p *actor.Player, z world.Zone)
	Desc string
}

// GameEvent is a named, persistent event. Conditions and actions are
// opaque closures bound at registration time; only the resulting flags
// are serialized.
type GameEvent struct {
	ID          string
	Name        string
	Description string
	Status      Status
	Conditions  []Condition
	Actions     []Action
	Persistent  bool
	AutoTrigger bool
}

// CheckConditions reports whether every condition passes.
func (e *GameEvent) CheckConditions(p *actor.Player, z world.Zone) bool {
	for _, c := range e.Conditions {
		if c.Check == nil || !c.Check(p, z) {
			return false
		}
	}
	return true
}

// ExecuteActions runs all actions in declaration order.
func (e *GameEvent) ExecuteActions(p *actor.Player, z world.Zone) {
	for _, a := range e.Actions {
		if a.Run != nil {
			a.Run(p, z)
		}
	}
}
