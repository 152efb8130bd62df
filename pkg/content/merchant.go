package content

import (
	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/npc"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// KeyOpenShop is set by the merchant dialog when the player asks to see
// the wares. The client checks it after the dialog closes, opens the
// shop screen, and clears it.
const KeyOpenShop = "merchant_open_shop"

// RegisterMerchant wires the dungeon Merchant. He keeps a stall on floor
// 1; his shelf is driven entirely by pkg/shop from the donation and
// restock state. His state has no completion condition so he always
// gives the full dialog.
func RegisterMerchant(e *engine.Engine) error {
	e.NPCs.Register("Merchant", &npc.StateConfig{
		ID:       "stall",
		ZoneType: world.ZoneDungeon,
		Floor:    npc.FloorAt(1),
		Position: &world.Point{X: 8, Y: 4},
		Glyph:    'M',
		Color:    "gold",
		Blocks:   true,
		Dialog:   func() dialog.Content { return merchantDialog(e.Events) },
	})
	return nil
}

func merchantDialog(ev *event.Registry) *dialog.Tree {
	t := dialog.NewTree("greeting")

	t.AddNode(&dialog.Node{
		ID:      "greeting",
		Speaker: "Merchant",
		Text: "Watch the lantern, friend, oil is not cheap down here.---" +
			"Looking to buy? Everything on the table is for sale. " +
			"If the table looks bare, talk to my man up in the lobby.",
		Options: []dialog.Option{
			{
				Text: "Show me your wares",
				OnSelect: func(p *actor.Player, z dialog.Zone) {
					ev.SetData(KeyOpenShop, true)
				},
			},
			{Text: "Just passing through"},
		},
	})

	return t
}
