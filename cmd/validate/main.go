// Command validate loads every content module into a fresh engine and
// checks the narrative graph for dangling references: transition targets
// that do not exist, dialog options pointing at missing nodes, dungeon
// states that could never spawn, and chunked texts with empty segments.
// Exits non-zero with the findings listed.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
	"github.com/FJavierRG/mansion-ambar/pkg/content"
	"github.com/FJavierRG/mansion-ambar/pkg/dialog"
	"github.com/FJavierRG/mansion-ambar/pkg/engine"
	"github.com/FJavierRG/mansion-ambar/pkg/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	player, err := actor.NewPlayer(&actor.PlayerSpec{Name: "validator", Level: 1, HP: 1, MaxHP: 1})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create probe player: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(player, logger)
	v := &ContentValidator{}

	if failed := eng.RegisterModules(content.Modules()); len(failed) > 0 {
		for _, name := range failed {
			v.errorf("module %q failed to register", name)
		}
	}

	v.validateMachine(eng)

	if len(v.errors) > 0 {
		fmt.Fprintf(os.Stderr, "Validation errors:\n%s\n", strings.Join(v.errors, "\n"))
		os.Exit(1)
	}

	fmt.Println("Content graph is valid!")
}

type ContentValidator struct {
	errors []string
}

func (v *ContentValidator) errorf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf("  - "+format, args...))
}

func (v *ContentValidator) validateMachine(eng *engine.Engine) {
	for _, name := range eng.NPCs.Names() {
		ids := eng.NPCs.StateIDs(name)
		known := make(map[string]bool, len(ids))
		for _, id := range ids {
			known[id] = true
		}

		for _, id := range ids {
			cfg := eng.NPCs.Config(name, id)

			for _, tr := range cfg.Transitions {
				if !known[tr.Target] {
					v.errorf("%s/%s: transition targets unknown state %q", name, id, tr.Target)
				}
				if tr.Guard == nil {
					v.errorf("%s/%s: transition to %q has no guard", name, id, tr.Target)
				}
			}

			if cfg.ZoneType == world.ZoneDungeon && cfg.Floor == nil && cfg.Spawn == nil {
				v.errorf("%s/%s: dungeon state has neither floor nor spawn predicate, can never spawn", name, id)
			}

			if cfg.Dialog != nil {
				v.validateContent(name, id, cfg.Dialog())
			}
			if cfg.CompletedDialog != nil {
				v.validateContent(name, id+" (completed)", cfg.CompletedDialog())
			}
		}
	}
}

func (v *ContentValidator) validateContent(name, stateID string, c dialog.Content) {
	switch t := c.(type) {
	case *dialog.Tree:
		v.validateTree(name, stateID, t)
	case *dialog.Text:
		v.validateChunks(name, stateID, strings.Join(t.Lines, "\n"))
	case nil:
		v.errorf("%s/%s: dialog builder returned nil", name, stateID)
	}
}

func (v *ContentValidator) validateTree(name, stateID string, t *dialog.Tree) {
	if t.StartNode() == nil {
		v.errorf("%s/%s: tree start node %q missing", name, stateID, t.Start)
	}
	for id, n := range t.Nodes {
		for _, opt := range n.Options {
			if opt.Next != "" && t.Node(opt.Next) == nil {
				v.errorf("%s/%s: node %q option %q targets missing node %q",
					name, stateID, id, opt.Text, opt.Next)
			}
		}
		if len(n.Options) == 0 && !n.AutoAdvance {
			v.errorf("%s/%s: node %q has no options and no auto-advance", name, stateID, id)
		}
		v.validateChunks(name, stateID, n.Text)
	}
}

func (v *ContentValidator) validateChunks(name, stateID, text string) {
	if !strings.Contains(text, dialog.ChunkSeparator) {
		return
	}
	for i, part := range strings.Split(text, dialog.ChunkSeparator) {
		if strings.TrimSpace(part) == "" {
			v.errorf("%s/%s: chunk %d is empty", name, stateID, i)
		}
	}
}
