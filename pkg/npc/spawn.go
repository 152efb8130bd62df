package npc

import (
	"github.com/FJavierRG/mansion-ambar/pkg/event"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

// safeGuard evaluates a guard with no player or zone. Content predicates
// that dereference the player anyway are treated as not satisfied rather
// than letting the spawn pass die.
func safeGuard(g Guard) (ok bool) {
	if g == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return g(nil, nil)
}

// floorMatches applies the dungeon floor rule: a state with an explicit
// floor must match exactly (plus its spawn predicate, if any); a
// floor-unset state is eligible only through a spawn predicate. A
// floor-unset state with no predicate never spawns.
func floorMatches(cfg *StateConfig, floor int, events *event.Registry) bool {
	if cfg.Floor != nil {
		if *cfg.Floor != floor {
			return false
		}
		if cfg.Spawn != nil {
			return cfg.Spawn(floor, events)
		}
		return true
	}
	if cfg.Spawn == nil {
		return false
	}
	return cfg.Spawn(floor, events)
}

// SpawnState decides which state, if any, the NPC should appear in when a
// zone of the given type populates. floor is -1 outside dungeons. May
// advance the NPC's state as a side effect: a transition deferred from
// dialog-close time resolves here, with guards evaluated over persistent
// event data only.
func (m *StateMachine) SpawnState(name, zoneType string, floor int, events *event.Registry) (string, bool) {
	key := m.Canonical(name)
	states := m.states[key]
	if len(states) == 0 {
		return "", false
	}

	currentID, hasCurrent := m.current[key]
	if !hasCurrent {
		return m.initialStateForZone(key, zoneType, floor, events)
	}

	cfg := states[currentID]
	if cfg == nil {
		return m.initialStateForZone(key, zoneType, floor, events)
	}

	// A COMPLETED current state tries to advance first. This resolves
	// deferred same-zone transitions and cross-zone moves that were
	// skipped at dialog close.
	if m.CompletionOf(key, currentID) == Completed {
		for _, tr := range cfg.Transitions {
			target := states[tr.Target]
			if target == nil || target.ZoneType != zoneType {
				continue
			}
			if zoneType == world.ZoneDungeon && !floorMatches(target, floor, events) {
				continue
			}
			if !safeGuard(tr.Guard) {
				continue
			}
			m.SetCurrentState(key, tr.Target)
			m.SetCompletion(key, tr.Target, InProgress)
			m.logger.Debug("npc deferred transition resolved",
				"npc", key, "from", currentID, "to", tr.Target)
			return tr.Target, true
		}
	}

	// No transition fired: the current state spawns only in its own zone.
	if cfg.ZoneType != zoneType {
		return "", false
	}
	if zoneType == world.ZoneDungeon && !floorMatches(cfg, floor, events) {
		return "", false
	}
	return currentID, true
}

// initialStateForZone finds the first declared state that can serve as
// the NPC's entry point into this zone when no current state exists.
//
// A candidate must belong to the zone (and pass the floor rule in
// dungeons), must not be LOCKED, must not be the target of a same-zone
// transition unless that predecessor is already COMPLETED, and when
// cross-zone transitions lead into it, at least one of their guards must
// be satisfiable from persistent data alone.
func (m *StateMachine) initialStateForZone(key, zoneType string, floor int, events *event.Registry) (string, bool) {
	states := m.states[key]

	for _, id := range m.stateOrder[key] {
		cfg := states[id]
		if cfg.ZoneType != zoneType {
			continue
		}
		if zoneType == world.ZoneDungeon {
			if !floorMatches(cfg, floor, events) {
				continue
			}
		} else if cfg.Spawn != nil && !cfg.Spawn(floor, events) {
			// Non-dungeon states may still gate on a spawn predicate;
			// this filters states that only activate programmatically.
			continue
		}
		if m.CompletionOf(key, id) == Locked {
			continue
		}

		var hasSameZoneIn, hasCompletedSameZonePred bool
		var crossZoneIn []Transition
		for _, otherID := range m.stateOrder[key] {
			other := states[otherID]
			for _, tr := range other.Transitions {
				if tr.Target != id {
					continue
				}
				if other.ZoneType == zoneType {
					hasSameZoneIn = true
					if m.CompletionOf(key, otherID) == Completed {
						hasCompletedSameZonePred = true
					}
				} else {
					crossZoneIn = append(crossZoneIn, tr)
				}
			}
		}

		// A transition target is reachable once any same-zone predecessor
		// has been completed, regardless of how many others still wait.
		if hasSameZoneIn && !hasCompletedSameZonePred {
			continue
		}
		if len(crossZoneIn) > 0 {
			satisfiable := false
			for _, tr := range crossZoneIn {
				if safeGuard(tr.Guard) {
					satisfiable = true
					break
				}
			}
			if !satisfiable {
				continue
			}
		}

		return id, true
	}
	return "", false
}

// CreateEntity builds the zone entity for an NPC in a given state:
// glyph and color from the config, sprite looked up by canonical name,
// no combat capability, dialog chosen by completion. The machine's
// current state moves to stateID and a NOT_STARTED state becomes
// IN_PROGRESS.
func (m *StateMachine) CreateEntity(name, stateID string, x, y int, sprites world.SpriteLookup) *world.Entity {
	key := m.Canonical(name)
	cfg := m.states[key][stateID]
	if cfg == nil {
		m.logger.Warn("unknown npc state", "npc", name, "state", stateID)
		return nil
	}

	e := &world.Entity{
		Name:   m.DisplayName(name),
		X:      x,
		Y:      y,
		Glyph:  cfg.Glyph,
		Color:  cfg.Color,
		Blocks: cfg.Blocks,
	}
	if sprites != nil {
		if sprite, ok := sprites.CreatureSprite(key); ok {
			e.Sprite = sprite
		}
	}

	m.SetCurrentState(key, stateID)
	if m.CompletionOf(key, stateID) == NotStarted {
		m.SetCompletion(key, stateID, InProgress)
	}
	e.Dialog = m.DialogFor(key, stateID)

	return e
}

// SpawnForZone places every registered NPC that should appear in the
// zone and is not already present. Position comes from the state config
// when fixed, otherwise a random walkable tile; occupied targets fall
// back to a 5x5 neighborhood search. Returns the entities added.
func (m *StateMachine) SpawnForZone(z world.Zone, events *event.Registry, sprites world.SpriteLookup) []*world.Entity {
	zoneType := z.ZoneType()
	floor := -1
	if zoneType == world.ZoneDungeon {
		floor = z.Floor()
	}

	var spawned []*world.Entity

	for _, key := range m.names {
		if zoneHasEntity(z, m.DisplayName(key)) {
			continue
		}

		stateID, ok := m.SpawnState(key, zoneType, floor, events)
		if !ok {
			continue
		}
		cfg := m.states[key][stateID]
		if cfg == nil {
			continue
		}

		var pos world.Point
		switch {
		case cfg.SpawnNear != "":
			companion := zoneEntityByName(z, m.DisplayName(cfg.SpawnNear))
			if companion == nil {
				// Companion absent, so this NPC stays out too.
				continue
			}
			p, found := nearbyFree(z, world.Point{X: companion.X, Y: companion.Y})
			if !found {
				continue
			}
			pos = p
		case cfg.Position != nil:
			pos = *cfg.Position
		default:
			p, found := m.randomWalkable(z)
			if !found {
				continue
			}
			pos = p
		}

		if z.BlockingEntityAt(pos.X, pos.Y) != nil {
			p, found := nearbyFree(z, pos)
			if !found {
				m.logger.Warn("no free tile for npc", "npc", key, "zone", zoneType)
				continue
			}
			pos = p
		}

		e := m.CreateEntity(key, stateID, pos.X, pos.Y, sprites)
		if e == nil {
			continue
		}
		z.AddEntity(e)
		spawned = append(spawned, e)
		m.logger.Debug("npc spawned", "npc", key, "state", stateID, "zone", zoneType, "floor", floor)
	}
	return spawned
}

func zoneHasEntity(z world.Zone, name string) bool {
	return zoneEntityByName(z, name) != nil
}

func zoneEntityByName(z world.Zone, name string) *world.Entity {
	for _, e := range z.Entities() {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (m *StateMachine) randomWalkable(z world.Zone) (world.Point, bool) {
	var tiles []world.Point
	for x := 0; x < z.Width(); x++ {
		for y := 0; y < z.Height(); y++ {
			if z.IsWalkable(x, y) {
				tiles = append(tiles, world.Point{X: x, Y: y})
			}
		}
	}
	if len(tiles) == 0 {
		return world.Point{}, false
	}
	return tiles[m.rng.Intn(len(tiles))], true
}

// nearbyFree scans the 5x5 neighborhood around pos for a walkable,
// unoccupied tile.
func nearbyFree(z world.Zone, pos world.Point) (world.Point, bool) {
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			x, y := pos.X+dx, pos.Y+dy
			if z.IsWalkable(x, y) && z.BlockingEntityAt(x, y) == nil {
				return world.Point{X: x, Y: y}, true
			}
		}
	}
	return world.Point{}, false
}
