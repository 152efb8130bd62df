package content

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/shop"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	p, err := actor.NewPlayer(&actor.PlayerSpec{Name: "test", Level: 1, HP: 30, MaxHP: 30, AC: 12})
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return engine.New(p, logger)
}

func TestModulesRegister(t *testing.T) {
	e := testEngine(t)

	if failed := e.RegisterModules(Modules()); len(failed) != 0 {
		t.Fatalf("Modules failed to load: %v", failed)
	}

	for _, id := range []string{
		EventFirstGoldPickup,
		EventFirstPotionBought,
		EventLibrarianDungeonMet,
		EventLibrarianLobbyComplete,
		EventStrangerMet,
		EventStrangerWeaponsUnlocked,
		EventStrangerHelpAccepted,
	} {
		if e.Events.Event(id) == nil {
			t.Errorf("Expected event %q registered", id)
		}
	}

	for _, name := range []string{"Wandering Merchant", "Merchant", "Librarian", "Hermes", "Stranger", "Keeper"} {
		if len(e.NPCs.StateIDs(name)) == 0 {
			t.Errorf("Expected states registered for %q", name)
		}
	}
}

func TestModuleDialogsResolve(t *testing.T) {
	e := testEngine(t)
	if failed := e.RegisterModules(Modules()); len(failed) != 0 {
		t.Fatalf("Modules failed to load: %v", failed)
	}

	// Every state with a dialog builder must produce non-nil content.
	for _, name := range e.NPCs.Names() {
		for _, stateID := range e.NPCs.StateIDs(name) {
			cfg := e.NPCs.Config(name, stateID)
			if cfg.Dialog != nil && cfg.Dialog() == nil {
				t.Errorf("%s/%s: dialog builder returned nil", name, stateID)
			}
			if cfg.CompletedDialog != nil && cfg.CompletedDialog() == nil {
				t.Errorf("%s/%s: completed dialog builder returned nil", name, stateID)
			}
		}
	}
}

func TestMerchantSpawnsOnFirstFloor(t *testing.T) {
	e := testEngine(t)
	if failed := e.RegisterModules(Modules()); len(failed) != 0 {
		t.Fatalf("Modules failed to load: %v", failed)
	}

	floor1 := world.NewGrid(world.ZoneDungeon, 1, 50, 24)
	spawned := e.EnterZone(floor1)

	found := false
	for _, ent := range spawned {
		if ent.Name == "Merchant" {
			found = true
		}
	}
	if !found {
		t.Error("Expected merchant on floor 1")
	}
}

func TestWandererAppearsAfterFirstGold(t *testing.T) {
	e := testEngine(t)
	if failed := e.RegisterModules(Modules()); len(failed) != 0 {
		t.Fatalf("Modules failed to load: %v", failed)
	}

	lobby := world.NewGrid(world.ZoneLobby, 0, 50, 24)
	for _, ent := range e.EnterZone(lobby) {
		if ent.Name == "Wandering Merchant" {
			t.Fatal("Wanderer must not appear before first gold pickup")
		}
	}

	e.Events.Trigger(EventFirstGoldPickup, e.Player, lobby, true)

	lobby = world.NewGrid(world.ZoneLobby, 0, 50, 24)
	found := false
	for _, ent := range e.EnterZone(lobby) {
		if ent.Name == "Wandering Merchant" {
			found = true
		}
	}
	if !found {
		t.Error("Expected wanderer in lobby after first gold pickup")
	}
}

func TestKeeperFirstConversationGetsWelcome(t *testing.T) {
	e := testEngine(t)
	if failed := e.RegisterModules(Modules()); len(failed) != 0 {
		t.Fatalf("Modules failed to load: %v", failed)
	}

	lobby := world.NewGrid(world.ZoneLobby, 0, 50, 24)
	e.EnterZone(lobby)
	keeper := lobby.EntityByName("Keeper")
	if keeper == nil {
		t.Fatal("Expected keeper in lobby")
	}

	// Spawning built the dialog already; that alone must not count as a
	// visit.
	if got := e.Events.GetInt(keyKeeperVisits, 0); got != 0 {
		t.Fatalf("Expected 0 visits before talking, got %d", got)
	}

	if !e.BeginInteraction(keeper) {
		t.Fatal("Expected interaction to open")
	}
	node := e.Dialog.CurrentNode()
	if node == nil || !strings.HasPrefix(node.Text, "New face.") {
		t.Fatalf("Expected the paged welcome on first conversation, got %+v", node)
	}
	if got := e.Events.GetInt(keyKeeperVisits, 0); got != 1 {
		t.Errorf("Expected 1 visit once the conversation opened, got %d", got)
	}

	// Page through the chunks to the end.
	for i := 0; e.Dialog.IsActive() && i < 10; i++ {
		e.Dialog.Select(e.Player, lobby)
	}
	e.EndInteraction()

	if !e.BeginInteraction(keeper) {
		t.Fatal("Expected second interaction to open")
	}
	node = e.Dialog.CurrentNode()
	if node == nil || !strings.Contains(node.Text, "Back again") {
		t.Errorf("Expected the repeat remark on second conversation, got %+v", node)
	}
	if got := e.Events.GetInt(keyKeeperVisits, 0); got != 2 {
		t.Errorf("Expected 2 visits, got %d", got)
	}
	e.Dialog.Close()
	e.EndInteraction()
}

func TestRestockFlowUnlocksShelf(t *testing.T) {
	e := testEngine(t)
	if failed := e.RegisterModules(Modules()); len(failed) != 0 {
		t.Fatalf("Modules failed to load: %v", failed)
	}

	shop.Donate(e.Events, 40)
	if s := shop.MerchantShop(e.Events); len(s.Items) != 0 {
		t.Fatalf("Expected empty shelf before restock, got %d items", len(s.Items))
	}

	shop.PayRestock(e.Events)
	s := shop.MerchantShop(e.Events)
	if len(s.Items) != 2 {
		t.Fatalf("Expected 2 items for 40 donated, got %d", len(s.Items))
	}

	// A completed run empties the shelf again but keeps the donations.
	e.CompleteRun()
	if s := shop.MerchantShop(e.Events); len(s.Items) != 0 {
		t.Error("Expected empty shelf after run completion")
	}
	if got := e.Events.GetInt(shop.KeyDonatedTotal, 0); got != 40 {
		t.Errorf("Expected donations kept, got %d", got)
	}
}
