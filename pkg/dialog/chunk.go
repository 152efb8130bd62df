package dialog

import (
	"fmt"
	"strings"
)

// ChunkSeparator splits a node's text into sequential speech bubbles.
const ChunkSeparator = "---"

const chunkPrefix = "_chunk:"

// IsSynthetic reports whether a node id names a chunk node produced by
// SplitChunks. Synthetic nodes are never re-chunked.
func IsSynthetic(nodeID string) bool {
	return strings.HasPrefix(nodeID, chunkPrefix)
}

// SplitChunks turns a node whose text contains ChunkSeparator into an
// ordered list of synthetic nodes, one per non-empty trimmed segment.
// Every segment except the last gets a single continue option pointing at
// the next segment; the last segment keeps the original node's options.
// The first segment inherits the original OnEnter. Returns nil when the
// text yields fewer than two segments or the node is already synthetic.
func SplitChunks(node *Node) []*Node {
	if node == nil || IsSynthetic(node.ID) {
		return nil
	}

	var segments []string
	for _, part := range strings.Split(node.Text, ChunkSeparator) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if len(segments) < 2 {
		return nil
	}

	chunkID := func(i int) string {
		return fmt.Sprintf("%s%s:%d", chunkPrefix, node.ID, i)
	}

	nodes := make([]*Node, 0, len(segments))
	for i, seg := range segments {
		n := &Node{
			ID:      chunkID(i),
			Speaker: node.Speaker,
			Text:    seg,
		}
		if i == 0 {
			n.OnEnter = node.OnEnter
		}
		if i == len(segments)-1 {
			n.Options = node.Options
		} else {
			n.Options = []Option{{Text: "Continue", Next: chunkID(i + 1)}}
		}
		nodes = append(nodes, n)
	}
	return nodes
}
