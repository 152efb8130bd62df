package actor

import (
	"encoding/json"
	"testing"
)

func testSpec() *PlayerSpec {
	return &PlayerSpec{
		Name:  "Adventurer",
		Level: 2,
		Gold:  30,
		Floor: 1,
		HP:    18,
		MaxHP: 24,
		AC:    13,
		Attributes: map[string]int{
			"str": 12,
			"dex": 14,
		},
		Inventory: []string{"health_potion"},
	}
}

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer(testSpec())
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}

	if p.Actor.MaxHP() != 24 {
		t.Errorf("Expected max HP 24, got %d", p.Actor.MaxHP())
	}
	if p.Actor.HP() != 18 {
		t.Errorf("Expected current HP 18, got %d", p.Actor.HP())
	}
	if p.Actor.AC() != 13 {
		t.Errorf("Expected AC 13, got %d", p.Actor.AC())
	}
	if p.Level() != 2 || p.Gold() != 30 || p.Floor() != 1 {
		t.Errorf("Spec accessors wrong: level=%d gold=%d floor=%d", p.Level(), p.Gold(), p.Floor())
	}
}

func TestNewPlayerNilSpec(t *testing.T) {
	if _, err := NewPlayer(nil); err == nil {
		t.Error("Expected error for nil spec")
	}
}

func TestPlayerGold(t *testing.T) {
	p, err := NewPlayer(testSpec())
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}

	p.AddGold(20)
	if p.Gold() != 50 {
		t.Errorf("Expected 50 gold, got %d", p.Gold())
	}

	if !p.SpendGold(50) {
		t.Error("Expected spend to succeed")
	}
	if p.SpendGold(1) {
		t.Error("Expected spend to fail at zero gold")
	}
	if p.SpendGold(-5) {
		t.Error("Expected negative spend to fail")
	}

	p.AddGold(-100)
	if p.Gold() != 0 {
		t.Errorf("Expected gold clamped at zero, got %d", p.Gold())
	}
}

func TestPlayerInventory(t *testing.T) {
	p, err := NewPlayer(testSpec())
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}

	if !p.HasItem("health_potion") {
		t.Error("Expected starting potion")
	}
	p.AddItem("short_sword")
	if !p.HasItem("short_sword") {
		t.Error("Expected added item")
	}
	if !p.RemoveItem("health_potion") {
		t.Error("Expected removal to succeed")
	}
	if p.HasItem("health_potion") {
		t.Error("Expected potion gone")
	}
	if p.RemoveItem("health_potion") {
		t.Error("Expected second removal to fail")
	}
}

func TestPlayerJSONRoundTrip(t *testing.T) {
	p, err := NewPlayer(testSpec())
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}
	// Runtime damage must survive the round-trip.
	if err := p.Actor.SetHP(9); err != nil {
		t.Fatalf("Failed to set HP: %v", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var restored Player
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if restored.Actor.HP() != 9 {
		t.Errorf("Expected HP 9 after round-trip, got %d", restored.Actor.HP())
	}
	if restored.Gold() != 30 || restored.Level() != 2 {
		t.Errorf("Spec fields lost: gold=%d level=%d", restored.Gold(), restored.Level())
	}
	if !restored.HasItem("health_potion") {
		t.Error("Expected inventory preserved")
	}
}
