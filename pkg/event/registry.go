package event

import (
	"log/slog"
	"sort"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// Registry stores registered events, the set of triggered event ids, the
// completed-run counter, and the persistent data store. One registry
// exists per session.
type Registry struct {
	events    map[string]*GameEvent
	order     []string
	triggered map[string]struct{}
	runCount  int
	data      map[string]any
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		events:    make(map[string]*GameEvent),
		triggered: make(map[string]struct{}),
		data:      make(map[string]any),
		logger:    logger,
	}
}

// Register adds an event. Events start LOCKED unless the registry already
// knows the id as triggered (a save restored before registration), in
// which case the event comes back TRIGGERED.
func (r *Registry) Register(e *GameEvent) {
	if e.Status == "" {
		e.Status = StatusLocked
	}
	if _, seen := r.events[e.ID]; !seen {
		r.order = append(r.order, e.ID)
	}
	r.events[e.ID] = e

	if _, ok := r.triggered[e.ID]; ok {
		e.Status = StatusTriggered
	}
}

// Event returns the registered event with the given id, or nil.
func (r *Registry) Event(id string) *GameEvent {
	return r.events[id]
}

// Trigger fires an event manually. It returns false, with no side effect,
// when the id is unknown or conditions fail and skipConditions is unset.
// On success all actions run in order and the event becomes TRIGGERED.
//
// Trigger is not idempotent: calling it again with skipConditions on an
// already-triggered event re-executes its actions. Callers that need
// idempotence check IsTriggered first.
func (r *Registry) Trigger(id string, p *actor.Player, z world.Zone, skipConditions bool) bool {
	e, ok := r.events[id]
	if !ok {
		return false
	}

	if !skipConditions && !e.CheckConditions(p, z) {
		return false
	}

	e.ExecuteActions(p, z)
	e.Status = StatusTriggered
	r.triggered[id] = struct{}{}

	r.logger.Debug("event triggered", "event_id", id)
	return true
}

// CheckAndTrigger sweeps every registered event once, in registration
// order. Events whose conditions pass are promoted LOCKED to AVAILABLE;
// auto-trigger events that reach AVAILABLE fire and their ids are
// returned. A single sweep: no event can trigger another within the pass.
func (r *Registry) CheckAndTrigger(p *actor.Player, z world.Zone) []string {
	var fired []string

	for _, id := range r.order {
		e := r.events[id]
		if e.Status == StatusTriggered || e.Status == StatusCompleted {
			continue
		}

		if !e.CheckConditions(p, z) {
			continue
		}
		if e.Status == StatusLocked {
			e.Status = StatusAvailable
		}
		if e.AutoTrigger && e.Status == StatusAvailable {
			if r.Trigger(id, p, z, false) {
				fired = append(fired, id)
			}
		}
	}
	return fired
}

// IsTriggered reports whether the event has ever fired.
func (r *Registry) IsTriggered(id string) bool {
	_, ok := r.triggered[id]
	return ok
}

// StatusOf returns the status of a registered event.
func (r *Registry) StatusOf(id string) (Status, bool) {
	e, ok := r.events[id]
	if !ok {
		return "", false
	}
	return e.Status, true
}

// CompleteRun marks one play-through as finished. Called exactly once per
// death or escape cycle.
func (r *Registry) CompleteRun() {
	r.runCount++
}

// RunCount returns the number of completed runs.
func (r *Registry) RunCount() int { return r.runCount }

// SetData stores a persistent value. Values must be save-serializable
// primitives; numbers come back as float64 after a JSON round-trip, which
// the typed getters absorb.
func (r *Registry) SetData(key string, value any) {
	r.data[key] = value
}

// GetData returns the stored value, or def when the key is absent.
func (r *Registry) GetData(key string, def any) any {
	if v, ok := r.data[key]; ok {
		return v
	}
	return def
}

// GetInt returns the stored value as an int, tolerating the float64 form
// JSON decoding produces.
func (r *Registry) GetInt(key string, def int) int {
	switch v := r.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// GetBool returns the stored value as a bool.
func (r *Registry) GetBool(key string, def bool) bool {
	if v, ok := r.data[key].(bool); ok {
		return v
	}
	return def
}

// GetString returns the stored value as a string.
func (r *Registry) GetString(key, def string) string {
	if v, ok := r.data[key].(string); ok {
		return v
	}
	return def
}

// State is the serialized form of the registry, embedded in the save
// document. Only persistent events report a status.
type State struct {
	TriggeredEvents []string          `json:"triggered_events"`
	EventsStatus    map[string]Status `json:"events_status"`
	RunCount        int               `json:"run_count"`
	EventData       map[string]any    `json:"event_data"`
}

// Snapshot captures the registry state. Triggered ids are sorted so equal
// registries snapshot identically.
func (r *Registry) Snapshot() State {
	triggered := make([]string, 0, len(r.triggered))
	for id := range r.triggered {
		triggered = append(triggered, id)
	}
	sort.Strings(triggered)

	statuses := make(map[string]Status)
	for id, e := range r.events {
		if e.Persistent {
			statuses[id] = e.Status
		}
	}

	data := make(map[string]any, len(r.data))
	for k, v := range r.data {
		data[k] = v
	}

	return State{
		TriggeredEvents: triggered,
		EventsStatus:    statuses,
		RunCount:        r.runCount,
		EventData:       data,
	}
}

// Restore loads registry state from a save. Statuses apply only to events
// already registered; ids in the triggered set also mark events restored
// later, via Register.
func (r *Registry) Restore(s State) {
	r.triggered = make(map[string]struct{}, len(s.TriggeredEvents))
	for _, id := range s.TriggeredEvents {
		r.triggered[id] = struct{}{}
	}
	r.runCount = s.RunCount

	r.data = make(map[string]any, len(s.EventData))
	for k, v := range s.EventData {
		r.data[k] = v
	}

	for id, status := range s.EventsStatus {
		if e, ok := r.events[id]; ok {
			e.Status = status
		}
	}
}

// Clear resets the triggered set, run count and data store, and forces
// every registered event back to LOCKED. Used when a save is deleted.
func (r *Registry) Clear() {
	r.triggered = make(map[string]struct{})
	r.runCount = 0
	r.data = make(map[string]any)
	for _, e := range r.events {
		e.Status = StatusLocked
	}
}
