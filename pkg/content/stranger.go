package content

import (
	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/npc"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// Event ids and data keys owned by the stranger module.
const (
	EventStrangerMet             = "stranger_floor4_met"
	EventStrangerWeaponsUnlocked = "stranger_lobby_weapons_unlocked"
	EventStrangerHelpAccepted    = "stranger_help_accepted"

	keyWeaponsCompletedAtRun = "stranger_weapons_completed_at_run"
)

// RegisterStranger wires the Stranger's arc: a first meeting on dungeon
// floor 4, after which he moves to the lobby to talk about weapons, and
// later, once the player has finished at least one run since that talk,
// asks for help and settles into waiting. The run gate keeps him from
// advancing just because the player saved and reloaded.
func RegisterStranger(e *engine.Engine) error {
	ev := e.Events

	ev.Register(&event.GameEvent{
		ID:          EventStrangerMet,
		Name:        "A hooded figure",
		Description: "First meeting with the Stranger on floor 4",
		Persistent:  true,
	})
	ev.Register(&event.GameEvent{
		ID:          EventStrangerWeaponsUnlocked,
		Name:        "Words about steel",
		Description: "The Stranger's weapons talk finished",
		Persistent:  true,
	})
	ev.Register(&event.GameEvent{
		ID:          EventStrangerHelpAccepted,
		Name:        "A favor promised",
		Description: "The player agreed to help the Stranger",
		Persistent:  true,
	})

	met := func(p *actor.Player, z world.Zone) bool {
		return ev.IsTriggered(EventStrangerMet)
	}

	e.NPCs.Register("Stranger", &npc.StateConfig{
		ID:         "start",
		ZoneType:   world.ZoneDungeon,
		Floor:      npc.FloorAt(4),
		Glyph:      '?',
		Color:      "dark_gray",
		Blocks:     true,
		Dialog:     func() dialog.Content { return strangerFloorDialog(ev) },
		Completion: met,
		Transitions: []npc.Transition{{
			Target: "about_weapons",
			Guard:  met,
			Desc:   "moves to the lobby after the floor 4 meeting",
		}},
	})

	e.NPCs.Register("Stranger", &npc.StateConfig{
		ID:       "about_weapons",
		ZoneType: world.ZoneLobby,
		Position: &world.Point{X: 40, Y: 20},
		Glyph:    '?',
		Color:    "dark_gray",
		Blocks:   true,
		Dialog:   func() dialog.Content { return strangerWeaponsDialog(ev) },
		CompletedDialog: func() dialog.Content {
			return dialog.NewText("Go on. Steel only answers to those who use it.", "Stranger", false)
		},
		Completion: func(p *actor.Player, z world.Zone) bool {
			return ev.IsTriggered(EventStrangerWeaponsUnlocked)
		},
		Transitions: []npc.Transition{{
			Target: "request",
			Guard: func(p *actor.Player, z world.Zone) bool {
				// Needs the talk finished AND at least one run completed
				// since. Saving and reloading alone must not advance him.
				if !ev.IsTriggered(EventStrangerWeaponsUnlocked) {
					return false
				}
				completedAt := ev.GetInt(keyWeaponsCompletedAtRun, -1)
				return ev.RunCount() > completedAt
			},
			Desc: "asks for help one run after the weapons talk",
		}},
	})

	e.NPCs.Register("Stranger", &npc.StateConfig{
		ID:       "request",
		ZoneType: world.ZoneLobby,
		Position: &world.Point{X: 40, Y: 20},
		Glyph:    '?',
		Color:    "dark_gray",
		Blocks:   true,
		Dialog:   func() dialog.Content { return strangerRequestDialog(ev) },
		CompletedDialog: func() dialog.Content {
			return dialog.NewText("Think about what I asked you.", "Stranger", false)
		},
		Completion: func(p *actor.Player, z world.Zone) bool {
			return ev.IsTriggered(EventStrangerHelpAccepted)
		},
		Transitions: []npc.Transition{{
			Target: "waiting",
			Guard: func(p *actor.Player, z world.Zone) bool {
				return ev.IsTriggered(EventStrangerHelpAccepted)
			},
			Desc: "settles in to wait once the player agrees",
		}},
	})

	// Final state. No completed dialog: he always says the same thing.
	e.NPCs.Register("Stranger", &npc.StateConfig{
		ID:       "waiting",
		ZoneType: world.ZoneLobby,
		Position: &world.Point{X: 40, Y: 20},
		Glyph:    '?',
		Color:    "dark_gray",
		Blocks:   true,
		Dialog: func() dialog.Content {
			return dialog.NewText(
				"I will be here. These old bones are done with stairs.", "Stranger", false)
		},
	})

	return nil
}

func strangerFloorDialog(ev *event.Registry) *dialog.Tree {
	t := dialog.NewTree("greeting")

	t.AddNode(&dialog.Node{
		ID:      "greeting",
		Speaker: "Stranger",
		Text: "Hold. Not one step closer.---" +
			"Hm. You are no mercenary. Forgive an old man his nerves.\n" +
			"Few come down this far with their wits still about them.",
		Options: []dialog.Option{{Text: "Continue", Next: "parting"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "parting",
		Speaker: "Stranger",
		Text: "This floor is no place to talk. I will make for the entrance hall.\n" +
			"Find me there, if you make it back up.",
		Options: []dialog.Option{{
			Text: "Continue",
			OnSelect: func(p *actor.Player, z dialog.Zone) {
				if !ev.IsTriggered(EventStrangerMet) {
					ev.Trigger(EventStrangerMet, p, nil, true)
				}
			},
		}},
	})

	return t
}

func strangerWeaponsDialog(ev *event.Registry) *dialog.Tree {
	t := dialog.NewTree("greeting")

	t.AddNode(&dialog.Node{
		ID:      "greeting",
		Speaker: "Stranger",
		Text: "So you made it back. Good.---" +
			"Listen. Whatever you find down there, a blade in hand beats a prayer.\n" +
			"The merchant sells steel, if you have fed his business enough.",
		Options: []dialog.Option{{Text: "Continue", Next: "farewell"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "farewell",
		Speaker: "Stranger",
		Text:    "Go arm yourself. We will speak again when you have bled a little more.",
		Options: []dialog.Option{{
			Text: "Continue",
			OnSelect: func(p *actor.Player, z dialog.Zone) {
				if !ev.IsTriggered(EventStrangerWeaponsUnlocked) {
					ev.Trigger(EventStrangerWeaponsUnlocked, p, nil, true)
					ev.SetData(keyWeaponsCompletedAtRun, ev.RunCount())
				}
			},
		}},
	})

	return t
}

func strangerRequestDialog(ev *event.Registry) *dialog.Tree {
	t := dialog.NewTree("greeting")

	t.AddNode(&dialog.Node{
		ID:      "greeting",
		Speaker: "Stranger",
		Text: "You again. You keep coming back up. That takes something.---" +
			"I have a favor to ask. My granddaughter went down before I did.\n" +
			"If you cross paths with a girl in those tunnels... tell her I am here.",
		Options: []dialog.Option{
			{
				Text: "I will keep an eye out",
				OnSelect: func(p *actor.Player, z dialog.Zone) {
					if !ev.IsTriggered(EventStrangerHelpAccepted) {
						ev.Trigger(EventStrangerHelpAccepted, p, nil, true)
					}
				},
			},
			{Text: "I can't promise anything"},
		},
	})

	return t
}
