// Package world defines the zone contract the narrative engine consumes
// and a concrete in-memory grid zone. Map generation, field of view and
// rendering live outside this module; the engine only needs entity
// placement and walkability queries.
package world

import "github.com/FJavierRG/mansion-ambar/pkg/dialog"

// Zone types hosted by the game. A lobby is the persistent hub above the
// dungeon; dungeon zones are numbered floors.
const (
	ZoneLobby   = "lobby"
	ZoneDungeon = "dungeon"
)

// Point is a tile coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Entity is anything placed in a zone that the engine can interact with.
// NPCs created by the spawn pass have no combat capability; their Dialog
// holds the conversation chosen for their current state.
type Entity struct {
	Name   string
	X, Y   int
	Glyph  rune
	Color  string
	Blocks bool
	Sprite string
	Dialog dialog.Content
}

// Zone is the view of a playable area the engine consumes: entity list
// mutation, walkability and occupancy queries, and dimensions.
type Zone interface {
	ZoneType() string
	Floor() int
	Width() int
	Height() int
	IsWalkable(x, y int) bool
	Entities() []*Entity
	AddEntity(e *Entity)
	RemoveEntity(e *Entity) bool
	BlockingEntityAt(x, y int) *Entity
}

// SpriteLookup resolves a sprite asset for a creature by its normalized
// name. The renderer owns the real implementation; SpriteSet is a plain
// map stand-in.
type SpriteLookup interface {
	CreatureSprite(name string) (string, bool)
}

// SpriteSet is a map-backed SpriteLookup.
type SpriteSet map[string]string

// CreatureSprite implements SpriteLookup.
func (s SpriteSet) CreatureSprite(name string) (string, bool) {
	sprite, ok := s[name]
	return sprite, ok
}

// Grid is a rectangular zone with per-tile walkability. Tests and the
// console client use it directly.
type Grid struct {
	zoneType string
	floor    int
	width    int
	height   int
	blocked  map[Point]bool
	entities []*Entity
}

var _ Zone = (*Grid)(nil)

// NewGrid builds a zone of the given type and size. Border tiles are
// walls; everything else starts walkable. floor is ignored for lobbies.
func NewGrid(zoneType string, floor, width, height int) *Grid {
	g := &Grid{
		zoneType: zoneType,
		floor:    floor,
		width:    width,
		height:   height,
		blocked:  make(map[Point]bool),
	}
	for x := 0; x < width; x++ {
		g.blocked[Point{x, 0}] = true
		g.blocked[Point{x, height - 1}] = true
	}
	for y := 0; y < height; y++ {
		g.blocked[Point{0, y}] = true
		g.blocked[Point{width - 1, y}] = true
	}
	return g
}

func (g *Grid) ZoneType() string { return g.zoneType }
func (g *Grid) Floor() int       { return g.floor }
func (g *Grid) Width() int       { return g.width }
func (g *Grid) Height() int      { return g.height }

// SetWall marks or clears a wall tile.
func (g *Grid) SetWall(x, y int, wall bool) {
	if wall {
		g.blocked[Point{x, y}] = true
	} else {
		delete(g.blocked, Point{x, y})
	}
}

// IsWalkable reports whether the tile is inside the zone and not a wall.
func (g *Grid) IsWalkable(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return false
	}
	return !g.blocked[Point{x, y}]
}

// Entities returns the live entity list.
func (g *Grid) Entities() []*Entity { return g.entities }

// AddEntity appends an entity to the zone.
func (g *Grid) AddEntity(e *Entity) {
	g.entities = append(g.entities, e)
}

// RemoveEntity removes the entity by identity. Returns false when the
// entity is not present.
func (g *Grid) RemoveEntity(e *Entity) bool {
	for i, other := range g.entities {
		if other == e {
			g.entities = append(g.entities[:i], g.entities[i+1:]...)
			return true
		}
	}
	return false
}

// BlockingEntityAt returns the blocking entity on the tile, or nil.
func (g *Grid) BlockingEntityAt(x, y int) *Entity {
	for _, e := range g.entities {
		if e.Blocks && e.X == x && e.Y == y {
			return e
		}
	}
	return nil
}

// EntityByName returns the first entity with the given name, or nil.
func (g *Grid) EntityByName(name string) *Entity {
	for _, e := range g.entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}
