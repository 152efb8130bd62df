package dialog

import (
	"testing"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
)

func testPlayer(t *testing.T, gold int) *actor.Player {
	t.Helper()
	p, err := actor.NewPlayer(&actor.PlayerSpec{Name: "test", Level: 1, Gold: gold, HP: 10, MaxHP: 10, AC: 12})
	if err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}
	return p
}

func simpleTree() *Tree {
	t := NewTree("start")
	t.AddNode(&Node{
		ID:   "start",
		Text: "hello",
		Options: []Option{
			{Text: "go", Next: "end"},
			{Text: "bye"},
		},
	})
	t.AddNode(&Node{
		ID:      "end",
		Text:    "done",
		Options: []Option{{Text: "close"}},
	})
	return t
}

func TestRuntime_StartDialog(t *testing.T) {
	r := NewRuntime()

	if r.StartDialog(nil) {
		t.Error("Expected false for nil tree")
	}
	if r.StartDialog(NewTree("missing")) {
		t.Error("Expected false for missing start node")
	}
	if r.IsActive() {
		t.Error("Runtime should stay idle after failed starts")
	}

	if !r.StartDialog(simpleTree()) {
		t.Fatal("Expected dialog to start")
	}
	if !r.IsDialog() || r.CurrentNode().ID != "start" {
		t.Errorf("Expected start node active, got %+v", r.CurrentNode())
	}
}

func TestRuntime_SelectAdvancesAndCloses(t *testing.T) {
	r := NewRuntime()
	p := testPlayer(t, 0)
	r.StartDialog(simpleTree())

	if !r.Select(p, nil) {
		t.Fatal("Expected dialog to continue after advancing")
	}
	if r.CurrentNode().ID != "end" {
		t.Errorf("Expected end node, got %q", r.CurrentNode().ID)
	}

	if r.Select(p, nil) {
		t.Error("Expected dialog to close on empty-next option")
	}
	if r.IsActive() {
		t.Error("Runtime should be idle after close")
	}
}

func TestRuntime_UnavailableOptionKeepsDialogOpen(t *testing.T) {
	r := NewRuntime()
	p := testPlayer(t, 0)

	tree := NewTree("start")
	tree.AddNode(&Node{
		ID:   "start",
		Text: "hello",
		Options: []Option{
			{Text: "rich only", Next: "end", Available: func(pl *actor.Player) bool { return pl.Gold() >= 100 }},
			{Text: "bye"},
		},
	})
	tree.AddNode(&Node{ID: "end", Text: "done", Options: []Option{{Text: "close"}}})
	r.StartDialog(tree)

	// Cursor starts on index 0, which is unavailable. Selecting it must
	// not advance or close.
	if !r.Select(p, nil) {
		t.Error("Expected dialog to stay open on unavailable option")
	}
	if r.CurrentNode().ID != "start" {
		t.Errorf("Expected to stay on start, got %q", r.CurrentNode().ID)
	}

	if got := len(r.AvailableOptions(p)); got != 1 {
		t.Errorf("Expected 1 available option, got %d", got)
	}
}

func TestRuntime_SelectionWrapsOverAvailable(t *testing.T) {
	r := NewRuntime()
	p := testPlayer(t, 0)

	tree := NewTree("start")
	tree.AddNode(&Node{
		ID:   "start",
		Text: "hello",
		Options: []Option{
			{Text: "a"},
			{Text: "locked", Available: func(*actor.Player) bool { return false }},
			{Text: "c"},
		},
	})
	r.StartDialog(tree)

	r.SelectNext(p)
	if r.Selected() != 2 {
		t.Errorf("Expected cursor to skip locked option to 2, got %d", r.Selected())
	}
	r.SelectNext(p)
	if r.Selected() != 0 {
		t.Errorf("Expected cursor to wrap to 0, got %d", r.Selected())
	}
	r.SelectPrevious(p)
	if r.Selected() != 2 {
		t.Errorf("Expected cursor to wrap back to 2, got %d", r.Selected())
	}
}

func TestRuntime_QueueIsFIFO(t *testing.T) {
	r := NewRuntime()

	r.Enqueue(NewText("first", "A", false))
	r.Enqueue(NewText("second", "B", false))
	if !r.HasQueued() {
		t.Fatal("Expected queued content")
	}

	if !r.Close() {
		t.Fatal("Expected close to activate queued content")
	}
	if !r.IsText() || r.ActiveText().Title != "A" {
		t.Errorf("Expected first queued text, got %+v", r.ActiveText())
	}

	if !r.Close() {
		t.Fatal("Expected second queued item")
	}
	if r.ActiveText().Title != "B" {
		t.Errorf("Expected second queued text, got %+v", r.ActiveText())
	}

	if r.Close() {
		t.Error("Expected queue drained")
	}
	if r.HasQueued() {
		t.Error("Queue should be empty")
	}
}

func TestRuntime_EnqueueTexts(t *testing.T) {
	r := NewRuntime()
	r.EnqueueTexts([]string{"one", "two"}, []string{"T"})

	r.Close()
	if r.ActiveText().Title != "T" {
		t.Errorf("Expected title T, got %q", r.ActiveText().Title)
	}
	r.Close()
	if r.ActiveText().Title != "" {
		t.Errorf("Expected untitled second text, got %q", r.ActiveText().Title)
	}
}

func TestRuntime_ChunkedNodeNavigation(t *testing.T) {
	r := NewRuntime()
	p := testPlayer(t, 0)

	tree := NewTree("start")
	tree.AddNode(&Node{
		ID:      "start",
		Speaker: "Keeper",
		Text:    "one---two---three",
		Options: []Option{{Text: "done"}},
	})
	r.StartDialog(tree)

	if !IsSynthetic(r.CurrentNode().ID) {
		t.Fatalf("Expected synthetic chunk node, got %q", r.CurrentNode().ID)
	}
	if r.CurrentNode().Text != "one" {
		t.Errorf("Expected first chunk, got %q", r.CurrentNode().Text)
	}

	r.Select(p, nil)
	r.Select(p, nil)
	if r.CurrentNode().Text != "three" {
		t.Errorf("Expected third chunk, got %q", r.CurrentNode().Text)
	}
	if len(r.CurrentNode().Options) != 1 || r.CurrentNode().Options[0].Text != "done" {
		t.Errorf("Last chunk should carry original options, got %+v", r.CurrentNode().Options)
	}

	if r.Select(p, nil) {
		t.Error("Expected dialog to close from last chunk")
	}
}

func TestRuntime_OnEnterFires(t *testing.T) {
	r := NewRuntime()
	p := testPlayer(t, 0)

	var entered []string
	tree := NewTree("start")
	tree.AddNode(&Node{
		ID:      "start",
		Text:    "hi",
		Options: []Option{{Text: "next", Next: "second"}},
		OnEnter: func() { entered = append(entered, "start") },
	})
	tree.AddNode(&Node{
		ID:      "second",
		Text:    "again",
		Options: []Option{{Text: "close"}},
		OnEnter: func() { entered = append(entered, "second") },
	})

	r.StartDialog(tree)
	r.Select(p, nil)

	if len(entered) != 2 || entered[0] != "start" || entered[1] != "second" {
		t.Errorf("Expected OnEnter for start then second, got %v", entered)
	}
}
