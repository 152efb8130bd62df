package content

import (
	"math/rand"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/npc"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// Event ids owned by the librarian module.
const (
	EventLibrarianDungeonMet    = "librarian_dungeon_met"
	EventLibrarianLobbyComplete = "librarian_lobby_dialog_completed"
)

// RegisterLibrarian wires the Librarian and his dog Hermes.
//
// The Librarian appears on odd dungeon floors with 50% probability once
// the player has bought their first potion, at most once per save. After
// the first conversation he relocates to the lobby near the campfire.
// Hermes always spawns next to him and follows him between zones.
func RegisterLibrarian(e *engine.Engine) error {
	ev := e.Events

	ev.Register(&event.GameEvent{
		ID:          EventLibrarianDungeonMet,
		Name:        "A stranger in the tunnels",
		Description: "First meeting with the Librarian in the dungeon",
		Persistent:  true,
	})
	ev.Register(&event.GameEvent{
		ID:          EventLibrarianLobbyComplete,
		Name:        "Tales of the mansion",
		Description: "The Librarian's lobby conversation finished",
		Persistent:  true,
	})

	dungeonSpawn := func(floor int, events *event.Registry) bool {
		if !events.IsTriggered(EventFirstPotionBought) {
			return false
		}
		if events.IsTriggered(EventLibrarianDungeonMet) {
			return false
		}
		if floor < 0 || floor%2 == 0 {
			return false
		}
		return rand.Float64() < 0.5
	}

	// Hermes shares the gate but not the coin flip; pairing to the
	// Librarian decides whether he actually appears.
	hermesSpawn := func(floor int, events *event.Registry) bool {
		if !events.IsTriggered(EventFirstPotionBought) {
			return false
		}
		if events.IsTriggered(EventLibrarianDungeonMet) {
			return false
		}
		return floor >= 0 && floor%2 == 1
	}

	metDungeon := func(p *actor.Player, z world.Zone) bool {
		return ev.IsTriggered(EventLibrarianDungeonMet)
	}

	e.NPCs.Register("Librarian", &npc.StateConfig{
		ID:         "dungeon_encounter",
		ZoneType:   world.ZoneDungeon,
		Glyph:      'B',
		Color:      "white",
		Blocks:     true,
		Dialog:     func() dialog.Content { return librarianDungeonDialog(ev) },
		Completion: metDungeon,
		Spawn:      dungeonSpawn,
		Transitions: []npc.Transition{{
			Target: "lobby_rest",
			Guard:  metDungeon,
			Desc:   "heads up to the lobby after the first talk",
		}},
	})

	e.NPCs.Register("Librarian", &npc.StateConfig{
		ID:              "lobby_rest",
		ZoneType:        world.ZoneLobby,
		Position:        &world.Point{X: 32, Y: 14},
		Glyph:           'B',
		Color:           "white",
		Blocks:          true,
		Dialog:          func() dialog.Content { return librarianLobbyDialog(ev) },
		CompletedDialog: librarianLobbyCompleted,
		Completion: func(p *actor.Player, z world.Zone) bool {
			return ev.IsTriggered(EventLibrarianLobbyComplete)
		},
	})

	e.NPCs.Register("Hermes", &npc.StateConfig{
		ID:              "with_librarian_dungeon",
		ZoneType:        world.ZoneDungeon,
		Glyph:           'd',
		Color:           "white",
		SpawnNear:       "Librarian",
		Dialog:          hermesDialog,
		CompletedDialog: hermesDialog,
		Completion:      metDungeon,
		Spawn:           hermesSpawn,
		Transitions: []npc.Transition{{
			Target: "with_librarian_lobby",
			Guard:  metDungeon,
			Desc:   "follows the Librarian to the lobby",
		}},
	})

	e.NPCs.Register("Hermes", &npc.StateConfig{
		ID:              "with_librarian_lobby",
		ZoneType:        world.ZoneLobby,
		Glyph:           'd',
		Color:           "white",
		SpawnNear:       "Librarian",
		Dialog:          hermesDialog,
		CompletedDialog: hermesDialog,
	})

	return nil
}

func librarianDungeonDialog(ev *event.Registry) *dialog.Tree {
	t := dialog.NewTree("greeting")

	t.AddNode(&dialog.Node{
		ID:      "greeting",
		Speaker: "Librarian",
		Text: "What did you smell, Hermes? A traveler?---" +
			"Well now, who are you? Do you come... in peace?---" +
			"I am, or I used to be, the librarian. Now I am just a wanderer, an adventurer.\n" +
			"This is Hermes, my dog. I advise you not to touch him.",
		Options: []dialog.Option{{Text: "Continue", Next: "hermes_bark"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "hermes_bark",
		Speaker: "Hermes",
		Text:    "*wof wof*",
		Options: []dialog.Option{{Text: "Continue", Next: "explanation"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "explanation",
		Speaker: "Librarian",
		Text: "His coat is made of hundreds of metal threads, sharp as obsidian.\n" +
			"Only I can pet him without being cut. And you, what brings you here?---" +
			"Hmm, I see. I am not surprised. These tunnels are a riddle.\n" +
			"Many have appeared like you before, remembering nothing, understanding less.",
		Options: []dialog.Option{{Text: "Continue", Next: "farewell"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "farewell",
		Speaker: "Librarian",
		Text: "You know what? I have been walking a long while. I am tired.\n" +
			"I think I may climb up to the entrance and rest there a bit. We can talk then.",
		Options: []dialog.Option{{Text: "Continue", Next: "farewell_bark"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "farewell_bark",
		Speaker: "Librarian",
		Text:    "Shall we, boy?",
		Options: []dialog.Option{{Text: "Continue", Next: "farewell_end"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "farewell_end",
		Speaker: "Hermes",
		Text:    "*wof wof*",
		Options: []dialog.Option{{
			Text: "Continue",
			OnSelect: func(p *actor.Player, z dialog.Zone) {
				if !ev.IsTriggered(EventLibrarianDungeonMet) {
					ev.Trigger(EventLibrarianDungeonMet, p, nil, true)
				}
			},
		}},
	})

	return t
}

func librarianLobbyDialog(ev *event.Registry) *dialog.Tree {
	t := dialog.NewTree("greeting")

	t.AddNode(&dialog.Node{
		ID:      "greeting",
		Speaker: "Librarian",
		Text:    "Hello, adventurer.",
		Options: []dialog.Option{{Text: "Continue", Next: "hermes_bark"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "hermes_bark",
		Speaker: "Hermes",
		Text:    "*wof wof*",
		Options: []dialog.Option{{Text: "Continue", Next: "nostalgia"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "nostalgia",
		Speaker: "Librarian",
		Text: "It had been a long time since Hermes and I passed through here. " +
			"We hardly rest outside the tunnels anymore.\n" +
			"We have grown used to the damp and the dark of those corridors.---" +
			"I began my journey meaning to draw a map and understand what this place is.\n" +
			"Up there most people have no idea. They ignore the nightmares hiding under the floor.",
		Options: []dialog.Option{{Text: "Continue", Next: "mansion"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "mansion",
		Speaker: "Librarian",
		Text: "Oh, forgive me, of course. You know nothing of the mansion. I come from above. " +
			"Over this hall rises a colossal building, endless, inhabited by artists, " +
			"scientists and thinkers.",
		Options: []dialog.Option{{Text: "Continue", Next: "farewell"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "farewell",
		Speaker: "Hermes",
		Text:    "*wof wof*",
		Options: []dialog.Option{{Text: "Continue", Next: "farewell_end"}},
	})
	t.AddNode(&dialog.Node{
		ID:      "farewell_end",
		Speaker: "Librarian",
		Text: "Yes, we are tired, friend. We are going to need some rest. " +
			"Next time you come by we will talk a little more.",
		Options: []dialog.Option{{
			Text: "See you",
			OnSelect: func(p *actor.Player, z dialog.Zone) {
				if !ev.IsTriggered(EventLibrarianLobbyComplete) {
					ev.Trigger(EventLibrarianLobbyComplete, p, nil, true)
				}
			},
		}},
	})

	return t
}

func librarianLobbyCompleted() dialog.Content {
	return dialog.NewText(
		"We are resting a while. Next time you come by we will talk a little more.",
		"Librarian", false)
}

func hermesDialog() dialog.Content {
	t := dialog.NewTree("bark")
	t.AddNode(&dialog.Node{
		ID:      "bark",
		Speaker: "Hermes",
		Text:    "*wof wof*",
		Options: []dialog.Option{{Text: "Good boy"}},
	})
	return t
}
