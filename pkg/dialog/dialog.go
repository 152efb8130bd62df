// Package dialog implements conversation trees, plain interactive texts
// and the runtime that drives them during play.
package dialog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FJavierRG/mansion-ambar/pkg/actor"
)

// Zone is the minimal view of the playable area that option callbacks
// receive. It avoids an import cycle with the world package.
type Zone interface {
	ZoneType() string
	Floor() int
}

// Option is a selectable entry in a dialog node. An empty Next closes the
// dialog. Available and OnSelect are bound at content-registration time and
// are not serializable.
type Option struct {
	Text      string
	Next      string
	Available func(p *actor.Player) bool
	OnSelect  func(p *actor.Player, z Zone)
}

// Node is one screen of conversation.
type Node struct {
	ID          string
	Speaker     string
	Text        string
	Options     []Option
	AutoAdvance bool
	OnEnter     func()
}

// Tree is a complete conversation: nodes keyed by id plus a start node.
type Tree struct {
	Nodes map[string]*Node
	Start string
}

// NewTree creates an empty tree rooted at the given start node id.
func NewTree(start string) *Tree {
	return &Tree{
		Nodes: make(map[string]*Node),
		Start: start,
	}
}

// AddNode inserts a node, replacing any previous node with the same id.
func (t *Tree) AddNode(n *Node) {
	t.Nodes[n.ID] = n
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id string) *Node {
	return t.Nodes[id]
}

// StartNode returns the configured start node, or nil.
func (t *Tree) StartNode() *Node {
	return t.Nodes[t.Start]
}

// Text is plain interactive content without options: signs, books,
// short NPC remarks.
type Text struct {
	Title     string   `json:"title,omitempty"`
	Lines     []string `json:"lines"`
	AutoClose bool     `json:"auto_close,omitempty"`
}

// NewText builds a Text from a string, splitting it into lines.
func NewText(s, title string, autoClose bool) *Text {
	return &Text{
		Title:     title,
		Lines:     strings.Split(s, "\n"),
		AutoClose: autoClose,
	}
}

// Content is anything the runtime can present: a *Tree or a *Text.
type Content interface {
	content()
}

func (*Tree) content() {}
func (*Text) content() {}

// External form of a tree, embedded per-entity when a live dialog must be
// persisted. Option predicates and callbacks are dropped on this
// round-trip; a reloaded tree has options with no guard or action.

type optionJSON struct {
	Text     string `json:"text"`
	NextNode string `json:"next_node,omitempty"`
}

type nodeJSON struct {
	NodeID      string       `json:"node_id"`
	Speaker     string       `json:"speaker,omitempty"`
	Text        string       `json:"text"`
	Options     []optionJSON `json:"options"`
	AutoAdvance bool         `json:"auto_advance"`
}

type treeJSON struct {
	StartNode string              `json:"start_node"`
	Nodes     map[string]nodeJSON `json:"nodes"`
}

// MarshalJSON serializes the tree in its external form.
func (t *Tree) MarshalJSON() ([]byte, error) {
	out := treeJSON{
		StartNode: t.Start,
		Nodes:     make(map[string]nodeJSON, len(t.Nodes)),
	}
	for id, n := range t.Nodes {
		nj := nodeJSON{
			NodeID:      n.ID,
			Speaker:     n.Speaker,
			Text:        n.Text,
			Options:     make([]optionJSON, 0, len(n.Options)),
			AutoAdvance: n.AutoAdvance,
		}
		for _, opt := range n.Options {
			nj.Options = append(nj.Options, optionJSON{Text: opt.Text, NextNode: opt.Next})
		}
		out.Nodes[id] = nj
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a tree from its external form. Options come back
// without guards or actions.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var in treeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to unmarshal dialog tree: %w", err)
	}

	t.Start = in.StartNode
	t.Nodes = make(map[string]*Node, len(in.Nodes))
	for id, nj := range in.Nodes {
		n := &Node{
			ID:          nj.NodeID,
			Speaker:     nj.Speaker,
			Text:        nj.Text,
			AutoAdvance: nj.AutoAdvance,
		}
		for _, oj := range nj.Options {
			n.Options = append(n.Options, Option{Text: oj.Text, Next: oj.NextNode})
		}
		t.Nodes[id] = n
	}
	return nil
}
