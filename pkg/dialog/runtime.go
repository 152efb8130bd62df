package dialog

import "github.com/FJavierRG/mansion-ambar/pkg/actor"

// Runtime holds the active conversation state for a session: the current
// tree or plain text, the selection cursor, and a FIFO queue of follow-up
// content to show when the current item closes. All mutation happens
// inside a single player input handler; there is no background execution.
type Runtime struct {
	tree     *Tree
	nodeID   string
	selected int
	text     *Text
	queue    []Content
}

// NewRuntime creates an idle dialog runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// StartDialog activates a tree at its start node, applying the chunking
// transform when the start node's text carries the chunk separator.
// Returns false if the tree is nil or its start node is missing.
func (r *Runtime) StartDialog(t *Tree) bool {
	if t == nil || t.StartNode() == nil {
		return false
	}

	r.tree = t
	r.nodeID = t.Start
	r.selected = 0
	r.text = nil

	r.applyChunking()
	if n := r.CurrentNode(); n != nil && n.OnEnter != nil {
		n.OnEnter()
	}
	return true
}

// StartText activates plain text content, displacing any active tree.
func (r *Runtime) StartText(t *Text) {
	r.text = t
	r.tree = nil
	r.nodeID = ""
	r.selected = 0
}

// applyChunking replaces the current node with its first chunk when the
// node's text contains the separator. The synthetic nodes are added to the
// active tree so navigation works unchanged.
func (r *Runtime) applyChunking() {
	chunks := SplitChunks(r.CurrentNode())
	if chunks == nil {
		return
	}
	for _, n := range chunks {
		r.tree.AddNode(n)
	}
	r.nodeID = chunks[0].ID
}

// CurrentNode returns the active dialog node, or nil when no tree is active.
func (r *Runtime) CurrentNode() *Node {
	if r.tree == nil || r.nodeID == "" {
		return nil
	}
	return r.tree.Node(r.nodeID)
}

// ActiveText returns the active plain text, or nil.
func (r *Runtime) ActiveText() *Text { return r.text }

// IsActive reports whether any dialog or text is showing.
func (r *Runtime) IsActive() bool { return r.tree != nil || r.text != nil }

// IsDialog reports whether a tree is active.
func (r *Runtime) IsDialog() bool { return r.tree != nil }

// IsText reports whether plain text is active.
func (r *Runtime) IsText() bool { return r.text != nil }

// Selected returns the index of the selected option within the node's
// option list.
func (r *Runtime) Selected() int { return r.selected }

// AvailableOptions returns the current node's options whose availability
// predicate is absent or passes for the player. This bounds cursor
// movement and decides what is rendered.
func (r *Runtime) AvailableOptions(p *actor.Player) []Option {
	var out []Option
	for _, i := range r.availableIndices(p) {
		out = append(out, r.CurrentNode().Options[i])
	}
	return out
}

func (r *Runtime) availableIndices(p *actor.Player) []int {
	n := r.CurrentNode()
	if n == nil {
		return nil
	}
	var idx []int
	for i, opt := range n.Options {
		if opt.Available == nil || opt.Available(p) {
			idx = append(idx, i)
		}
	}
	return idx
}

// SelectNext moves the cursor to the next available option, wrapping.
func (r *Runtime) SelectNext(p *actor.Player) {
	r.moveSelection(p, 1)
}

// SelectPrevious moves the cursor to the previous available option, wrapping.
func (r *Runtime) SelectPrevious(p *actor.Player) {
	r.moveSelection(p, -1)
}

func (r *Runtime) moveSelection(p *actor.Player, dir int) {
	avail := r.availableIndices(p)
	if len(avail) == 0 {
		return
	}
	pos := 0
	for i, idx := range avail {
		if idx == r.selected {
			pos = i
			break
		}
	}
	pos = (pos + dir + len(avail)) % len(avail)
	r.selected = avail[pos]
}

// clampSelection snaps the cursor to the first available option of the
// current node.
func (r *Runtime) clampSelection(p *actor.Player) {
	avail := r.availableIndices(p)
	if len(avail) == 0 {
		r.selected = 0
		return
	}
	r.selected = avail[0]
}

// Select activates the chosen option: runs its side effect, then either
// advances to the target node (true, dialog continues) or closes the
// dialog (false). Selecting with nothing active is a no-op returning false.
func (r *Runtime) Select(p *actor.Player, z Zone) bool {
	n := r.CurrentNode()
	if n == nil || len(n.Options) == 0 {
		return false
	}
	if r.selected < 0 || r.selected >= len(n.Options) {
		return false
	}

	opt := n.Options[r.selected]
	if opt.Available != nil && !opt.Available(p) {
		// Unavailable option: stay put, dialog remains open.
		return true
	}

	if opt.OnSelect != nil {
		opt.OnSelect(p, z)
	}

	if opt.Next == "" {
		r.Close()
		return false
	}

	r.nodeID = opt.Next
	r.selected = 0
	r.applyChunking()
	r.clampSelection(p)
	if next := r.CurrentNode(); next != nil && next.OnEnter != nil {
		next.OnEnter()
	}
	return true
}

// Close clears the active tree or text. If the queue is non-empty the next
// item is popped and activated; the return value reports whether something
// new became active.
func (r *Runtime) Close() bool {
	r.tree = nil
	r.nodeID = ""
	r.selected = 0
	r.text = nil

	return r.processQueue()
}

func (r *Runtime) processQueue() bool {
	if len(r.queue) == 0 {
		return false
	}
	next := r.queue[0]
	r.queue = r.queue[1:]

	switch c := next.(type) {
	case *Tree:
		return r.StartDialog(c)
	case *Text:
		r.StartText(c)
		return true
	}
	return false
}

// Enqueue appends content to the pending queue. It is shown automatically
// when the current item closes.
func (r *Runtime) Enqueue(c Content) {
	r.queue = append(r.queue, c)
}

// EnqueueTexts queues a sequence of raw strings as plain texts. titles may
// be nil or shorter than texts; missing entries produce untitled texts.
func (r *Runtime) EnqueueTexts(texts []string, titles []string) {
	for i, s := range texts {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		r.Enqueue(NewText(s, title, false))
	}
}

// HasQueued reports whether follow-up content is pending.
func (r *Runtime) HasQueued() bool { return len(r.queue) > 0 }

// ClearQueue drops all pending content.
func (r *Runtime) ClearQueue() { r.queue = nil }
