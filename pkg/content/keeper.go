package content

import (
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/npc"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

const keyKeeperVisits = "keeper_visits"

// RegisterKeeper wires the Keeper, the fixture by the lobby stairs. He
// has a single state and no completion; his long welcome is paged with
// the chunk separator and he keeps count of how many times the player
// has come to bother him.
func RegisterKeeper(e *engine.Engine) error {
	ev := e.Events

	e.NPCs.Register("Keeper", &npc.StateConfig{
		ID:       "tending",
		ZoneType: world.ZoneLobby,
		Position: &world.Point{X: 28, Y: 8},
		Glyph:    'K',
		Color:    "amber",
		Blocks:   true,
		Dialog: func() dialog.Content {
			return keeperDialog(ev)
		},
	})

	return nil
}

// keeperDialog shows the paged welcome on the first conversation and a
// short remark afterwards. Building the content reads the visit count
// only; it bumps when the conversation opens, so spawn-time and
// refresh-time builds do not burn the welcome.
func keeperDialog(ev *event.Registry) *dialog.Tree {
	visits := ev.GetInt(keyKeeperVisits, 0)

	text := "New face. They all come through here sooner or later." +
		"---I keep the fire and the stairs. Have done since before the tunnels " +
		"had a name.---Mind the dark down there. And wipe your boots coming up."
	if visits > 0 {
		text = "Back again. The fire does not tend itself, you know."
	}

	t := dialog.NewTree("greet")
	t.AddNode(&dialog.Node{
		ID:      "greet",
		Speaker: "Keeper",
		Text:    text,
		OnEnter: func() { ev.SetData(keyKeeperVisits, visits+1) },
		Options: []dialog.Option{{Text: "Leave him to his fire"}},
	})
	return t
}
