package event

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testPlayer(t *testing.T) *actor.Player {
	t.Helper()
	p, err := actor.NewPlayer(&actor.PlayerSpec{Name: "test", Level: 1, HP: 10, MaxHP: 10, AC: 12})
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}
	return p
}

func alwaysTrue(p *actor.Player, z world.Zone) bool  { return true }
func alwaysFalse(p *actor.Player, z world.Zone) bool { return false }

func TestRegistry_RegisterDefaults(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Register(&GameEvent{ID: "a", Name: "A"})

	status, ok := r.StatusOf("a")
	if !ok {
		t.Fatal("Expected event registered")
	}
	if status != StatusLocked {
		t.Errorf("Expected default LOCKED, got %q", status)
	}
	if r.IsTriggered("a") {
		t.Error("Fresh event should not be triggered")
	}
}

func TestRegistry_TriggerConditionsAndActions(t *testing.T) {
	r := NewRegistry(testLogger())
	p := testPlayer(t)

	runs := 0
	r.Register(&GameEvent{
		ID:         "gated",
		Name:       "Gated",
		Conditions: []Condition{{Check: alwaysFalse}},
		Actions:    []Action{{Run: func(pl *actor.Player, z world.Zone) { runs++ }}},
	})

	if r.Trigger("gated", p, nil, false) {
		t.Error("Expected trigger to fail on unmet conditions")
	}
	if runs != 0 {
		t.Errorf("Actions ran despite failed conditions: %d", runs)
	}

	if !r.Trigger("gated", p, nil, true) {
		t.Error("Expected skip-conditions trigger to succeed")
	}
	if runs != 1 {
		t.Errorf("Expected 1 action run, got %d", runs)
	}
	if !r.IsTriggered("gated") {
		t.Error("Expected event marked triggered")
	}

	// Trigger is deliberately not idempotent.
	r.Trigger("gated", p, nil, true)
	if runs != 2 {
		t.Errorf("Expected actions to run again, got %d runs", runs)
	}

	if r.Trigger("missing", p, nil, true) {
		t.Error("Expected trigger of unknown id to fail")
	}
}

func TestRegistry_CheckAndTriggerSingleSweep(t *testing.T) {
	r := NewRegistry(testLogger())
	p := testPlayer(t)

	// Auto event whose condition depends on another event having fired.
	// A single sweep must not cascade: chained fires one sweep later.
	r.Register(&GameEvent{
		ID:          "root",
		Name:        "Root",
		Conditions:  []Condition{{Check: alwaysTrue}},
		AutoTrigger: true,
	})
	r.Register(&GameEvent{
		ID:   "chained",
		Name: "Chained",
		Conditions: []Condition{{Check: func(pl *actor.Player, z world.Zone) bool {
			return r.IsTriggered("root")
		}}},
		AutoTrigger: true,
	})

	fired := r.CheckAndTrigger(p, nil)
	if len(fired) != 1 || fired[0] != "root" {
		t.Fatalf("Expected only root to fire first sweep, got %v", fired)
	}

	fired = r.CheckAndTrigger(p, nil)
	if len(fired) != 1 || fired[0] != "chained" {
		t.Fatalf("Expected chained to fire second sweep, got %v", fired)
	}

	// A third sweep re-fires nothing.
	if fired = r.CheckAndTrigger(p, nil); len(fired) != 0 {
		t.Errorf("Expected no fires on third sweep, got %v", fired)
	}
}

func TestRegistry_CheckAndTriggerPromotesWithoutFiring(t *testing.T) {
	r := NewRegistry(testLogger())
	p := testPlayer(t)

	r.Register(&GameEvent{
		ID:         "manual",
		Name:       "Manual",
		Conditions: []Condition{{Check: alwaysTrue}},
	})

	fired := r.CheckAndTrigger(p, nil)
	if len(fired) != 0 {
		t.Errorf("Non-auto event must not fire in sweep, got %v", fired)
	}
	status, _ := r.StatusOf("manual")
	if status != StatusAvailable {
		t.Errorf("Expected promotion to AVAILABLE, got %q", status)
	}
}

func TestRegistry_SnapshotRestoreRoundTrip(t *testing.T) {
	build := func() *Registry {
		r := NewRegistry(testLogger())
		r.Register(&GameEvent{ID: "p1", Name: "P1", Persistent: true})
		r.Register(&GameEvent{ID: "p2", Name: "P2", Persistent: true})
		r.Register(&GameEvent{ID: "ephemeral", Name: "E"})
		return r
	}

	p := testPlayer(t)
	r := build()
	r.Trigger("p2", p, nil, true)
	r.Trigger("ephemeral", p, nil, true)
	r.CompleteRun()
	r.CompleteRun()
	r.SetData("merchant_donated_total", 60)
	r.SetData("restock", true)

	snap := r.Snapshot()

	// Only persistent events carry a status.
	if _, ok := snap.EventsStatus["ephemeral"]; ok {
		t.Error("Ephemeral event leaked into events_status")
	}
	if snap.EventsStatus["p2"] != StatusTriggered {
		t.Errorf("Expected p2 triggered in snapshot, got %q", snap.EventsStatus["p2"])
	}

	first, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}

	r2 := build()
	var decoded State
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	r2.Restore(decoded)

	second, err := json.Marshal(r2.Snapshot())
	if err != nil {
		t.Fatalf("Failed to marshal second snapshot: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Snapshot not stable across restore:\n%s\n%s", first, second)
	}

	if !r2.IsTriggered("p2") || !r2.IsTriggered("ephemeral") {
		t.Error("Triggered set lost in restore")
	}
	if r2.RunCount() != 2 {
		t.Errorf("Expected run count 2, got %d", r2.RunCount())
	}
	if got := r2.GetInt("merchant_donated_total", 0); got != 60 {
		t.Errorf("Expected donated total 60, got %d", got)
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry(testLogger())
	p := testPlayer(t)

	r.Register(&GameEvent{ID: "a", Name: "A", Persistent: true})
	r.Trigger("a", p, nil, true)
	r.CompleteRun()
	r.SetData("k", 1)

	r.Clear()

	if r.IsTriggered("a") {
		t.Error("Triggered set should be empty after clear")
	}
	if status, _ := r.StatusOf("a"); status != StatusLocked {
		t.Errorf("Expected LOCKED after clear, got %q", status)
	}
	if r.RunCount() != 0 {
		t.Errorf("Expected run count 0, got %d", r.RunCount())
	}
	if got := r.GetInt("k", -1); got != -1 {
		t.Errorf("Expected data cleared, got %d", got)
	}
}

func TestRegistry_DataGetters(t *testing.T) {
	r := NewRegistry(testLogger())

	r.SetData("int", 7)
	r.SetData("float", float64(9)) // JSON-decoded numbers arrive as float64
	r.SetData("bool", true)
	r.SetData("str", "hi")

	if got := r.GetInt("int", 0); got != 7 {
		t.Errorf("GetInt(int) = %d", got)
	}
	if got := r.GetInt("float", 0); got != 9 {
		t.Errorf("GetInt(float) = %d", got)
	}
	if got := r.GetInt("missing", 42); got != 42 {
		t.Errorf("GetInt(missing) = %d", got)
	}
	if !r.GetBool("bool", false) {
		t.Error("GetBool(bool) = false")
	}
	if got := r.GetString("str", ""); got != "hi" {
		t.Errorf("GetString(str) = %q", got)
	}
}

func TestRegistry_RegisterAfterRestoreKeepsTriggered(t *testing.T) {
	r := NewRegistry(testLogger())
	r.Restore(State{TriggeredEvents: []string{"late"}})

	r.Register(&GameEvent{ID: "late", Name: "Late"})

	if !r.IsTriggered("late") {
		t.Error("Expected late-registered event to keep triggered identity")
	}
	if status, _ := r.StatusOf("late"); status != StatusTriggered {
		t.Errorf("Expected TRIGGERED status, got %q", status)
	}
}
