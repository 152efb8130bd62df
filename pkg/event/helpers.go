package event

import (
	"fmt"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// Factories for the conditions and actions content modules use most.
// Each returns a closure bound to its arguments; nothing here is
// serialized.

// ConditionPlayerLevel requires the player to be at least minLevel.
func ConditionPlayerLevel(minLevel int) Condition {
	return Condition{
		Check: func(p *actor.Player, _ world.Zone) bool {
			return p != nil && p.Level() >= minLevel
		},
		Desc: fmt.Sprintf("player level %d+", minLevel),
	}
}

// ConditionPlayerFloor requires the player to be on the given floor.
func ConditionPlayerFloor(floor int) Condition {
	return Condition{
		Check: func(p *actor.Player, _ world.Zone) bool {
			return p != nil && p.Floor() == floor
		},
		Desc: fmt.Sprintf("on floor %d", floor),
	}
}

// ConditionPlayerHasItem requires an inventory item by name.
func ConditionPlayerHasItem(item string) Condition {
	return Condition{
		Check: func(p *actor.Player, _ world.Zone) bool {
			return p != nil && p.HasItem(item)
		},
		Desc: "has " + item,
	}
}

// ConditionPlayerHasGold requires a minimum gold amount.
func ConditionPlayerHasGold(minGold int) Condition {
	return Condition{
		Check: func(p *actor.Player, _ world.Zone) bool {
			return p != nil && p.Gold() >= minGold
		},
		Desc: fmt.Sprintf("has %d+ gold", minGold),
	}
}

// ConditionEntityExists requires an entity by name in the current zone,
// optionally restricted to a zone type.
func ConditionEntityExists(name, zoneType string) Condition {
	return Condition{
		Check: func(_ *actor.Player, z world.Zone) bool {
			if z == nil {
				return false
			}
			if zoneType != "" && z.ZoneType() != zoneType {
				return false
			}
			for _, e := range z.Entities() {
				if e.Name == name {
					return true
				}
			}
			return false
		},
		Desc: "entity " + name + " exists",
	}
}

// ConditionEventTriggered requires another event to have fired.
func ConditionEventTriggered(r *Registry, eventID string) Condition {
	return Condition{
		Check: func(_ *actor.Player, _ world.Zone) bool {
			return r.IsTriggered(eventID)
		},
		Desc: "event " + eventID + " triggered",
	}
}

// ConditionAlways passes unconditionally.
func ConditionAlways() Condition {
	return Condition{
		Check: func(_ *actor.Player, _ world.Zone) bool { return true },
		Desc:  "always",
	}
}

// ActionGiveGold credits (or, negative, debits) player gold.
func ActionGiveGold(amount int) Action {
	return Action{
		Run: func(p *actor.Player, _ world.Zone) {
			if p != nil {
				p.AddGold(amount)
			}
		},
		Desc: fmt.Sprintf("gold %+d", amount),
	}
}

// ActionGiveItem adds an item to the player's inventory.
func ActionGiveItem(item string) Action {
	return Action{
		Run: func(p *actor.Player, _ world.Zone) {
			if p != nil {
				p.AddItem(item)
			}
		},
		Desc: "give " + item,
	}
}

// ActionRemoveEntity removes the first entity with the given name from the
// current zone, optionally restricted to a zone type.
func ActionRemoveEntity(name, zoneType string) Action {
	return Action{
		Run: func(_ *actor.Player, z world.Zone) {
			if z == nil {
				return
			}
			if zoneType != "" && z.ZoneType() != zoneType {
				return
			}
			for _, e := range z.Entities() {
				if e.Name == name {
					z.RemoveEntity(e)
					return
				}
			}
		},
		Desc: "remove " + name,
	}
}

// ActionShowMessage queues plain text content to show when the active
// dialog closes, or immediately on the next input if nothing is active.
func ActionShowMessage(rt *dialog.Runtime, text, title string) Action {
	return Action{
		Run: func(_ *actor.Player, _ world.Zone) {
			rt.Enqueue(dialog.NewText(text, title, false))
		},
		Desc: "show message",
	}
}

// ActionSetData writes a value into the registry's persistent store.
func ActionSetData(r *Registry, key string, value any) Action {
	return Action{
		Run: func(_ *actor.Player, _ world.Zone) {
			r.SetData(key, value)
		},
		Desc: "set " + key,
	}
}

// ActionCustom wraps an arbitrary side effect.
func ActionCustom(run func(p *actor.Player, z world.Zone), desc string) Action {
	if desc == "" {
		desc = "custom action"
	}
	return Action{Run: run, Desc: desc}
}
