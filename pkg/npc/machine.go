package npc

import (
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/text/cases"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// StateMachine owns every registered NPC: its states, the pointer to the
// current state, and per-state completion. Names are canonicalized to
// case-folded form once at registration; lookups fold the query.
type StateMachine struct {
	fold       cases.Caser
	states     map[string]map[string]*StateConfig
	stateOrder map[string][]string
	names      []string
	display    map[string]string
	current    map[string]string
	completion map[string]map[string]Completion
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewStateMachine creates an empty machine.
func NewStateMachine(logger *slog.Logger) *StateMachine {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateMachine{
		fold:       cases.Fold(),
		states:     make(map[string]map[string]*StateConfig),
		stateOrder: make(map[string][]string),
		display:    make(map[string]string),
		current:    make(map[string]string),
		completion: make(map[string]map[string]Completion),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     logger,
	}
}

// SetRand replaces the randomness source used for spawn positions.
func (m *StateMachine) SetRand(r *rand.Rand) { m.rng = r }

// Canonical returns the lookup key for an NPC name.
func (m *StateMachine) Canonical(name string) string {
	return m.fold.String(name)
}

// DisplayName returns the name the NPC was first registered under.
func (m *StateMachine) DisplayName(name string) string {
	if d, ok := m.display[m.Canonical(name)]; ok {
		return d
	}
	return name
}

// Register adds a state for the named NPC, keyed case-insensitively.
func (m *StateMachine) Register(name string, cfg *StateConfig) {
	key := m.Canonical(name)
	if _, ok := m.states[key]; !ok {
		m.states[key] = make(map[string]*StateConfig)
		m.completion[key] = make(map[string]Completion)
		m.names = append(m.names, key)
		m.display[key] = name
	}
	if _, dup := m.states[key][cfg.ID]; !dup {
		m.stateOrder[key] = append(m.stateOrder[key], cfg.ID)
	}
	m.states[key][cfg.ID] = cfg
	m.completion[key][cfg.ID] = NotStarted
}

// Names returns the canonical names of all registered NPCs in
// registration order.
func (m *StateMachine) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Config returns the state config for an NPC, or nil.
func (m *StateMachine) Config(name, stateID string) *StateConfig {
	return m.states[m.Canonical(name)][stateID]
}

// StateIDs returns the NPC's state ids in declaration order.
func (m *StateMachine) StateIDs(name string) []string {
	ids := m.stateOrder[m.Canonical(name)]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// CurrentState returns the NPC's current state id, if any.
func (m *StateMachine) CurrentState(name string) (string, bool) {
	id, ok := m.current[m.Canonical(name)]
	return id, ok
}

// SetCurrentState moves the pointer. The state's completion entry is
// created as NOT_STARTED if missing.
func (m *StateMachine) SetCurrentState(name, stateID string) {
	key := m.Canonical(name)
	m.current[key] = stateID
	if m.completion[key] == nil {
		m.completion[key] = make(map[string]Completion)
	}
	if _, ok := m.completion[key][stateID]; !ok {
		m.completion[key][stateID] = NotStarted
	}
}

// CompletionOf returns the completion of a state, defaulting to
// NOT_STARTED for unknown names or states.
func (m *StateMachine) CompletionOf(name, stateID string) Completion {
	if c, ok := m.completion[m.Canonical(name)][stateID]; ok {
		return c
	}
	return NotStarted
}

// SetCompletion records the completion of a state.
func (m *StateMachine) SetCompletion(name, stateID string, c Completion) {
	key := m.Canonical(name)
	if m.completion[key] == nil {
		m.completion[key] = make(map[string]Completion)
	}
	m.completion[key][stateID] = c
}

// CheckAndTransition scans the current state's transitions in declared
// order and executes the first whose guard passes. With onlyCrossZone,
// transitions whose destination shares the source's zone type are skipped
// so they resolve at the next spawn pass instead. On success the
// destination becomes current, the source is marked COMPLETED, the
// destination IN_PROGRESS, and its id is returned. No match leaves the
// NPC unchanged.
func (m *StateMachine) CheckAndTransition(name string, p *actor.Player, z world.Zone, onlyCrossZone bool) (string, bool) {
	key := m.Canonical(name)
	currentID, ok := m.current[key]
	if !ok {
		return "", false
	}
	cfg := m.states[key][currentID]
	if cfg == nil {
		return "", false
	}

	for _, tr := range cfg.Transitions {
		if tr.Guard == nil || !tr.Guard(p, z) {
			continue
		}
		if onlyCrossZone {
			target := m.states[key][tr.Target]
			if target != nil && target.ZoneType == cfg.ZoneType {
				// Same zone: defer to the next spawn pass.
				continue
			}
		}

		m.SetCurrentState(key, tr.Target)
		m.SetCompletion(key, currentID, Completed)
		m.SetCompletion(key, tr.Target, InProgress)
		m.logger.Debug("npc transition",
			"npc", key, "from", currentID, "to", tr.Target, "cross_zone_only", onlyCrossZone)
		return tr.Target, true
	}
	return "", false
}

// DialogFor returns the conversation to show for a state: the short
// variant when the state is COMPLETED and one exists, the full dialog
// otherwise, falling back to the short variant for states that only have
// one. Returns nil when the state has no dialog at all.
func (m *StateMachine) DialogFor(name, stateID string) dialog.Content {
	cfg := m.Config(name, stateID)
	if cfg == nil {
		return nil
	}

	if m.CompletionOf(name, stateID) == Completed && cfg.CompletedDialog != nil {
		return cfg.CompletedDialog()
	}
	if cfg.Dialog != nil {
		return cfg.Dialog()
	}
	if cfg.CompletedDialog != nil {
		return cfg.CompletedDialog()
	}
	return nil
}

// Snapshot captures current states and completion for the save document.
func (m *StateMachine) Snapshot() State {
	s := State{
		CurrentStates:   make(map[string]string, len(m.current)),
		StateCompletion: make(map[string]map[string]Completion, len(m.completion)),
	}
	for k, v := range m.current {
		s.CurrentStates[k] = v
	}
	for name, states := range m.completion {
		inner := make(map[string]Completion, len(states))
		for id, c := range states {
			inner[id] = c
		}
		s.StateCompletion[name] = inner
	}
	return s
}

// Restore loads machine state from a save.
func (m *StateMachine) Restore(s State) {
	m.current = make(map[string]string, len(s.CurrentStates))
	for k, v := range s.CurrentStates {
		m.current[m.Canonical(k)] = v
	}
	m.completion = make(map[string]map[string]Completion, len(s.StateCompletion))
	for name, states := range s.StateCompletion {
		inner := make(map[string]Completion, len(states))
		for id, c := range states {
			inner[id] = c
		}
		m.completion[m.Canonical(name)] = inner
	}
	// Registered states unknown to the save default to NOT_STARTED.
	for name, states := range m.states {
		if m.completion[name] == nil {
			m.completion[name] = make(map[string]Completion, len(states))
		}
		for id := range states {
			if _, ok := m.completion[name][id]; !ok {
				m.completion[name][id] = NotStarted
			}
		}
	}
}

// Clear resets every NPC to unencountered: no current state, all
// completion NOT_STARTED.
func (m *StateMachine) Clear() {
	m.current = make(map[string]string)
	for name, states := range m.states {
		m.completion[name] = make(map[string]Completion, len(states))
		for id := range states {
			m.completion[name][id] = NotStarted
		}
	}
}
