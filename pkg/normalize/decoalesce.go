package normalize

import "github.com/opentimestamps/go-ots/pkg/model"

// decoalesce is pass 5, post-order: when a single-byte outgoing edge leads
// to a node with zero leaves and exactly two outgoing edges of the same
// type as the parent (both append or both prepend), split the outer
// one-byte operand back into each of the two children (spec.md §4.3.5).
// This handles the corner case where coalescing a one-byte operand with
// each of two children would cost a byte compared to inlining it twice.
// The rule triggers only when the parent edge's operand is exactly one
// byte.
func decoalesce(t *model.Tree) {
	for _, e := range t.Edges() {
		decoalesce(e.Subtree)
	}

	for {
		edges := t.Edges()
		progressed := false
		for _, e := range edges {
			op, sub := e.Op, e.Subtree
			if !fusable(op.Tag) || len(op.Operand) != 1 {
				continue
			}
			if len(sub.Leaves()) != 0 {
				continue
			}
			subEdges := sub.Edges()
			if len(subEdges) != 2 {
				continue
			}
			if subEdges[0].Op.Tag != op.Tag || subEdges[1].Op.Tag != op.Tag {
				continue
			}
			t.RemoveEdge(op)
			for _, se := range subEdges {
				t.AddEdge(fuseOperands(op, se.Op), se.Subtree)
			}
			progressed = true
			break
		}
		if !progressed {
			return
		}
	}
}
