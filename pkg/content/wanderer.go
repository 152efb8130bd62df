package content

import (
	"fmt"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/npc"
	"github.com/FJavierRG/mansion-ambar/pkg/shop"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// RestockCost is the flat per-run price for restocking the dungeon
// merchant's shelf.
const RestockCost = 15

// EventFirstGoldPickup unlocks the Wandering Merchant in the lobby.
const EventFirstGoldPickup = "first_gold_pickup"

// EventFirstPotionBought marks the player's first potion purchase from
// the dungeon merchant. The librarian arc gates on it.
const EventFirstPotionBought = "merchant_first_potion_bought"

// Fixed donation amounts offered in the donation submenu.
var donationAmounts = []int{10, 25, 50}

// RegisterWanderer wires the Wandering Merchant, the lobby middleman for
// the dungeon merchant. He takes gold for two things: a per-run restock
// that fills the dungeon shelf, and open donations that permanently
// unlock new stock tiers. The player never sees the thresholds; tiers
// crossed by a donation are announced as they unlock.
func RegisterWanderer(e *engine.Engine) error {
	ev := e.Events

	ev.Register(&event.GameEvent{
		ID:          EventFirstGoldPickup,
		Name:        "First coin",
		Description: "The player picked up their first gold coin",
		Persistent:  true,
	})
	ev.Register(&event.GameEvent{
		ID:          EventFirstPotionBought,
		Name:        "First purchase",
		Description: "The player bought their first potion from the merchant",
		Persistent:  true,
	})

	e.NPCs.Register("Wandering Merchant", &npc.StateConfig{
		ID:       "greeting",
		ZoneType: world.ZoneLobby,
		Position: &world.Point{X: 36, Y: 10},
		Glyph:    '$',
		Color:    "gold",
		Blocks:   true,
		Dialog:   func() dialog.Content { return wandererDialog(e) },
		Spawn: func(floor int, events *event.Registry) bool {
			return events.IsTriggered(EventFirstGoldPickup)
		},
	})

	return nil
}

// wandererDialog is rebuilt on every interaction so option availability
// reflects the current restock and gold state.
func wandererDialog(e *engine.Engine) *dialog.Tree {
	ev := e.Events
	t := dialog.NewTree("welcome")

	canRestock := func(p *actor.Player) bool {
		if p == nil {
			return false
		}
		return p.Gold() >= RestockCost && !ev.GetBool(shop.KeyRestockPaid, false)
	}

	t.AddNode(&dialog.Node{
		ID:      "welcome",
		Speaker: "Wandering Merchant",
		Text: "Who goes there? What are those footsteps?" +
			"---Oh, a traveler. I came up here to rest a little.\n" +
			"You would not happen to want to lend a hand, putting some money into my shop?",
		Options: []dialog.Option{
			{
				Text:      fmt.Sprintf("Offer some help (%d gold)", RestockCost),
				Next:      "thanks_restock",
				Available: canRestock,
				OnSelect: func(p *actor.Player, z dialog.Zone) {
					if p.SpendGold(RestockCost) {
						shop.PayRestock(ev)
					}
				},
			},
			{
				Text: "Put money toward the merchant's business",
				Next: "donate",
				Available: func(p *actor.Player) bool {
					return p != nil && p.Gold() >= 1
				},
			},
			{Text: "No, thanks"},
		},
	})

	t.AddNode(&dialog.Node{
		ID:      "thanks_restock",
		Speaker: "Wandering Merchant",
		Text:    "Thank you for your help. This will do.",
		Options: []dialog.Option{{Text: "Continue"}},
	})

	donateNode := &dialog.Node{
		ID:      "donate",
		Speaker: "Wandering Merchant",
		Text:    "Every coin helps. How much can you spare?",
	}
	for _, amount := range donationAmounts {
		amount := amount
		donateNode.Options = append(donateNode.Options, dialog.Option{
			Text: fmt.Sprintf("Donate %d gold", amount),
			Next: "thanks_donation",
			Available: func(p *actor.Player) bool {
				return p != nil && p.Gold() >= amount
			},
			OnSelect: func(p *actor.Player, z dialog.Zone) {
				if !p.SpendGold(amount) {
					return
				}
				unlocked := shop.Donate(ev, amount)
				for _, entry := range unlocked {
					e.AddMessage("The merchant's stock improves: %s", entry.Name)
				}
			},
		})
	}
	donateNode.Options = append(donateNode.Options, dialog.Option{Text: "Maybe later"})
	t.AddNode(donateNode)

	t.AddNode(&dialog.Node{
		ID:      "thanks_donation",
		Speaker: "Wandering Merchant",
		Text:    "Much obliged. The merchant below will put it to good use.",
		Options: []dialog.Option{{Text: "Continue"}},
	})

	return t
}
