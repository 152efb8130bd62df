package main

import (
	"math/rand"

	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

const (
	lobbyWidth  = 50
	lobbyHeight = 24

	dungeonWidth  = 50
	dungeonHeight = 24
	maxFloor      = 9
)

// buildLobby creates the entrance hall: campfire, the stairs down, and a
// few walls to give the room shape. NPCs are spawned by the engine.
func buildLobby() *world.Grid {
	g := world.NewGrid(world.ZoneLobby, 0, lobbyWidth, lobbyHeight)

	for x := 20; x <= 24; x++ {
		g.SetWall(x, 6, true)
	}
	for y := 6; y <= 10; y++ {
		g.SetWall(20, y, true)
	}

	g.AddEntity(&world.Entity{
		Name:   "Campfire",
		X:      34,
		Y:      12,
		Glyph:  '&',
		Color:  "orange",
		Dialog: dialog.NewText("The fire crackles softly. It never seems to burn down.", "", false),
	})
	g.AddEntity(&world.Entity{
		Name:  "Stairs Down",
		X:     44,
		Y:     12,
		Glyph: '>',
		Color: "white",
	})

	return g
}

// buildDungeonFloor creates one dungeon floor with random interior walls
// and the stairs to the next floor.
func buildDungeonFloor(floor int, rng *rand.Rand) *world.Grid {
	g := world.NewGrid(world.ZoneDungeon, floor, dungeonWidth, dungeonHeight)

	for i := 0; i < 40; i++ {
		x := 2 + rng.Intn(dungeonWidth-4)
		y := 2 + rng.Intn(dungeonHeight-4)
		g.SetWall(x, y, true)
	}

	stairs := &world.Entity{Name: "Stairs Down", Glyph: '>', Color: "white"}
	if floor >= maxFloor {
		stairs = &world.Entity{Name: "Stairs Up", Glyph: '<', Color: "white"}
	}
	for {
		x := 2 + rng.Intn(dungeonWidth-4)
		y := 2 + rng.Intn(dungeonHeight-4)
		if g.IsWalkable(x, y) {
			stairs.X, stairs.Y = x, y
			break
		}
	}
	g.AddEntity(stairs)

	return g
}

// findSpawn returns a walkable tile free of blocking entities, scanning
// from the top left.
func findSpawn(g *world.Grid) (int, int) {
	for y := 1; y < g.Height()-1; y++ {
		for x := 1; x < g.Width()-1; x++ {
			if g.IsWalkable(x, y) && g.BlockingEntityAt(x, y) == nil {
				return x, y
			}
		}
	}
	return 1, 1
}
