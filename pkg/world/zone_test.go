package world

import "testing"

func TestNewGridBorders(t *testing.T) {
	g := NewGrid(ZoneDungeon, 3, 10, 8)

	if g.ZoneType() != ZoneDungeon || g.Floor() != 3 {
		t.Errorf("Zone identity wrong: %s floor %d", g.ZoneType(), g.Floor())
	}
	if g.Width() != 10 || g.Height() != 8 {
		t.Errorf("Dimensions wrong: %dx%d", g.Width(), g.Height())
	}

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, false},
		{9, 7, false},
		{5, 0, false},
		{0, 4, false},
		{1, 1, true},
		{5, 4, true},
		{-1, 3, false},
		{10, 3, false},
	}
	for _, tc := range tests {
		if got := g.IsWalkable(tc.x, tc.y); got != tc.want {
			t.Errorf("IsWalkable(%d,%d): expected %v, got %v", tc.x, tc.y, tc.want, got)
		}
	}
}

func TestGridSetWall(t *testing.T) {
	g := NewGrid(ZoneLobby, 0, 10, 10)

	g.SetWall(4, 4, true)
	if g.IsWalkable(4, 4) {
		t.Error("Expected wall tile blocked")
	}
	g.SetWall(4, 4, false)
	if !g.IsWalkable(4, 4) {
		t.Error("Expected cleared tile walkable")
	}
}

func TestGridEntities(t *testing.T) {
	g := NewGrid(ZoneLobby, 0, 10, 10)
	npc := &Entity{Name: "Keeper", X: 3, Y: 3, Blocks: true}
	sign := &Entity{Name: "Sign", X: 5, Y: 5}
	g.AddEntity(npc)
	g.AddEntity(sign)

	if got := g.BlockingEntityAt(3, 3); got != npc {
		t.Error("Expected blocking entity at (3,3)")
	}
	if got := g.BlockingEntityAt(5, 5); got != nil {
		t.Error("Non-blocking entity must not block")
	}

	if got := g.EntityByName("Sign"); got != sign {
		t.Error("Expected lookup by name")
	}
	if got := g.EntityByName("Ghost"); got != nil {
		t.Error("Expected nil for missing name")
	}

	if !g.RemoveEntity(npc) {
		t.Error("Expected removal to succeed")
	}
	if g.RemoveEntity(npc) {
		t.Error("Expected second removal to fail")
	}
	if len(g.Entities()) != 1 {
		t.Errorf("Expected 1 entity left, got %d", len(g.Entities()))
	}
}

func TestSpriteSet(t *testing.T) {
	s := SpriteSet{"librarian": "librarian.png"}

	if sprite, ok := s.CreatureSprite("librarian"); !ok || sprite != "librarian.png" {
		t.Errorf("Expected sprite hit, got %q ok=%v", sprite, ok)
	}
	if _, ok := s.CreatureSprite("ghost"); ok {
		t.Error("Expected miss for unknown creature")
	}
}
