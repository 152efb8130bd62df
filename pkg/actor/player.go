package actor

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/jwebster45206/d20"
)

// PlayerSpec is the serializable description of the player. It holds
// everything needed to rebuild the runtime Player after a load.
type PlayerSpec struct {
	Name       string         `json:"name"`
	Level      int            `json:"level"`
	Gold       int            `json:"gold"`
	Floor      int            `json:"floor"`
	HP         int            `json:"hp"`
	MaxHP      int            `json:"max_hp"`
	AC         int            `json:"ac"`
	Attributes map[string]int `json:"attributes,omitempty"`
	Inventory  []string       `json:"inventory,omitempty"`
}

// Player is the runtime representation of the player character. The
// narrative engine only ever reads from it when evaluating predicates;
// dialog actions may mutate gold, inventory and floor.
type Player struct {
	Spec  *PlayerSpec
	Actor *d20.Actor // Built at runtime from PlayerSpec
}

// NewPlayer builds a Player from a spec, constructing its d20.Actor.
func NewPlayer(spec *PlayerSpec) (*Player, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}

	attrs := make(map[string]int, len(spec.Attributes))
	maps.Copy(attrs, spec.Attributes)

	actor, err := d20.NewActor(spec.Name).
		WithHP(spec.MaxHP).
		WithAC(spec.AC).
		WithAttributes(attrs).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	if spec.HP != spec.MaxHP && spec.HP > 0 {
		if err := actor.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return &Player{Spec: spec, Actor: actor}, nil
}

// Level returns the player's level.
func (p *Player) Level() int { return p.Spec.Level }

// Gold returns the player's current gold.
func (p *Player) Gold() int { return p.Spec.Gold }

// Floor returns the dungeon floor the player is on. Zero means the lobby.
func (p *Player) Floor() int { return p.Spec.Floor }

// SetFloor records the floor the player occupies.
func (p *Player) SetFloor(floor int) { p.Spec.Floor = floor }

// AddGold credits gold to the player. Negative amounts are clamped so the
// total never goes below zero.
func (p *Player) AddGold(amount int) {
	p.Spec.Gold += amount
	if p.Spec.Gold < 0 {
		p.Spec.Gold = 0
	}
}

// SpendGold deducts the amount if the player can afford it.
func (p *Player) SpendGold(amount int) bool {
	if amount < 0 || p.Spec.Gold < amount {
		return false
	}
	p.Spec.Gold -= amount
	return true
}

// HasItem reports whether the named item is in the player's inventory.
func (p *Player) HasItem(name string) bool {
	for _, it := range p.Spec.Inventory {
		if it == name {
			return true
		}
	}
	return false
}

// AddItem appends an item to the player's inventory.
func (p *Player) AddItem(name string) {
	p.Spec.Inventory = append(p.Spec.Inventory, name)
}

// RemoveItem removes the first inventory entry with the given name.
func (p *Player) RemoveItem(name string) bool {
	for i, it := range p.Spec.Inventory {
		if it == name {
			p.Spec.Inventory = append(p.Spec.Inventory[:i], p.Spec.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// MarshalJSON serializes the player in spec form, reading current HP
// from the Actor so runtime damage survives the round-trip.
func (p *Player) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	if p.Actor == nil {
		return json.Marshal(p.Spec)
	}

	spec := *p.Spec
	spec.HP = p.Actor.HP()
	spec.MaxHP = p.Actor.MaxHP()
	spec.AC = p.Actor.AC()
	return json.Marshal(&spec)
}

// UnmarshalJSON reconstructs a Player from spec form and rebuilds its Actor.
func (p *Player) UnmarshalJSON(data []byte) error {
	var spec PlayerSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("failed to unmarshal player spec: %w", err)
	}

	rebuilt, err := NewPlayer(&spec)
	if err != nil {
		return err
	}
	*p = *rebuilt
	return nil
}
