// Package engine ties the narrative subsystems into one session context:
// the event registry, the NPC state machine, the dialog runtime, and the
// player, with the interaction contract that keeps them consistent.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/npc"
	"github.com/FJavierRG/mansion-ambar/pkg/shop"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// Engine is one game session. Nothing here is global; two engines can
// coexist without sharing state.
type Engine struct {
	ID      uuid.UUID
	Events  *event.Registry
	NPCs    *npc.StateMachine
	Dialog  *dialog.Runtime
	Player  *actor.Player
	Zone    world.Zone
	Sprites world.SpriteLookup

	// Messages is the session's player-facing log, appended to by the
	// interaction contract and drained by the UI.
	Messages []string

	logger *slog.Logger

	// Interaction bookkeeping. The state captured at interaction start
	// is the one completion applies to, even if dialog actions move the
	// machine meanwhile.
	interactingWith  *world.Entity
	interactionState string
}

// New creates an engine with fresh subsystems and the given player.
func New(p *actor.Player, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		ID:     uuid.New(),
		Events: event.NewRegistry(logger),
		NPCs:   npc.NewStateMachine(logger),
		Dialog: dialog.NewRuntime(),
		Player: p,
		logger: logger,
	}
}

// Logger returns the engine's logger for content modules that log.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// AddMessage appends a line to the session message log.
func (e *Engine) AddMessage(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// DrainMessages returns and clears the pending message log.
func (e *Engine) DrainMessages() []string {
	msgs := e.Messages
	e.Messages = nil
	return msgs
}

// Module is a self-contained content unit (an NPC with its events and
// dialog). Register wires it into the engine.
type Module struct {
	Name     string
	Register func(*Engine) error
}

// RegisterModules loads content modules in order. A panicking or failing
// module is logged and skipped; the rest still load. Returns the names
// of modules that failed.
func (e *Engine) RegisterModules(modules []Module) []string {
	var failed []string
	for _, m := range modules {
		if err := e.registerModule(m); err != nil {
			e.logger.Error("content module failed to load", "module", m.Name, "error", err)
			failed = append(failed, m.Name)
		}
	}
	return failed
}

func (e *Engine) registerModule(m Module) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module %s panicked: %v", m.Name, r)
		}
	}()
	if m.Register == nil {
		return fmt.Errorf("module %s has no register func", m.Name)
	}
	return m.Register(e)
}

// EnterZone sets the active zone and spawns every NPC that belongs in it.
func (e *Engine) EnterZone(z world.Zone) []*world.Entity {
	e.Zone = z
	return e.NPCs.SpawnForZone(z, e.Events, e.Sprites)
}

// BeginInteraction opens the entity's dialog or text content. For NPCs
// with machine state it first refreshes the entity's dialog from the
// current state, then records which state the interaction started in.
// Auto events are swept after the content opens. Returns false when the
// entity has nothing to say.
func (e *Engine) BeginInteraction(ent *world.Entity) bool {
	if ent == nil || ent.Dialog == nil {
		return false
	}

	e.interactingWith = ent
	e.interactionState = ""

	if stateID, ok := e.NPCs.CurrentState(ent.Name); ok {
		e.interactionState = stateID
		if refreshed := e.NPCs.DialogFor(ent.Name, stateID); refreshed != nil {
			ent.Dialog = refreshed
		}
	}

	opened := e.openContent(ent.Dialog)
	if !opened {
		e.interactingWith = nil
		e.interactionState = ""
		return false
	}

	e.announceTriggered(e.Events.CheckAndTrigger(e.Player, e.Zone))
	return true
}

// openContent activates dialog content, splitting plain text on the
// chunk separator into a queued sequence of pages.
func (e *Engine) openContent(c dialog.Content) bool {
	switch v := c.(type) {
	case *dialog.Tree:
		return e.Dialog.StartDialog(v)
	case *dialog.Text:
		full := strings.Join(v.Lines, "\n")
		var pages []string
		for _, part := range strings.Split(full, dialog.ChunkSeparator) {
			if p := strings.TrimSpace(part); p != "" {
				pages = append(pages, p)
			}
		}
		if len(pages) > 1 {
			titles := make([]string, len(pages))
			for i := range titles {
				titles[i] = v.Title
			}
			e.Dialog.EnqueueTexts(pages, titles)
			return e.Dialog.Close()
		}
		e.Dialog.StartText(v)
		return true
	}
	return false
}

// EndInteraction runs the dialog-close contract, in order:
//
//  1. The state active at interaction start is marked COMPLETED, but
//     only if its config defines a completion condition. States without
//     one never complete automatically.
//  2. The entity's dialog is refreshed from the machine's current state
//     so the next interaction reflects any mid-dialog state change.
//  3. Cross-zone transitions are checked (same-zone ones wait for the
//     next zone visit). If the NPC moved to another zone type, its
//     entity leaves the current zone.
//  4. Auto events are swept again.
//
// The transition step still runs when an event removed the entity from
// the zone mid-dialog; only the entity removal is skipped.
func (e *Engine) EndInteraction() {
	ent := e.interactingWith
	if ent == nil {
		return
	}
	startState := e.interactionState
	e.interactingWith = nil
	e.interactionState = ""

	name := ent.Name
	inZone := e.zoneHas(ent)

	if startState != "" {
		cfg := e.NPCs.Config(name, startState)
		if cfg != nil && cfg.Completion != nil &&
			e.NPCs.CompletionOf(name, startState) != npc.Completed {
			e.NPCs.SetCompletion(name, startState, npc.Completed)
		}
	}

	if current, ok := e.NPCs.CurrentState(name); ok && inZone {
		if refreshed := e.NPCs.DialogFor(name, current); refreshed != nil {
			ent.Dialog = refreshed
		}
	}

	if target, ok := e.NPCs.CheckAndTransition(name, e.Player, e.Zone, true); ok {
		cfg := e.NPCs.Config(name, target)
		if cfg != nil && e.Zone != nil && cfg.ZoneType != e.Zone.ZoneType() && inZone {
			e.Zone.RemoveEntity(ent)
			e.AddMessage("%s has left...", name)
		}
	}

	e.announceTriggered(e.Events.CheckAndTrigger(e.Player, e.Zone))
}

func (e *Engine) announceTriggered(ids []string) {
	for _, id := range ids {
		if ev := e.Events.Event(id); ev != nil {
			e.AddMessage("Event: %s", ev.Name)
		}
	}
}

func (e *Engine) zoneHas(ent *world.Entity) bool {
	if e.Zone == nil {
		return false
	}
	for _, other := range e.Zone.Entities() {
		if other == ent {
			return true
		}
	}
	return false
}

// CompleteRun ends the current run: bumps the registry's run counter and
// clears per-run data such as the merchant restock flag. Persistent
// progress survives.
func (e *Engine) CompleteRun() {
	e.Events.CompleteRun()
	shop.ResetForRun(e.Events)
	e.logger.Info("run completed", "run_count", e.Events.RunCount())
}
