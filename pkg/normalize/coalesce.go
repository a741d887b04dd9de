package normalize

import "github.com/opentimestamps/go-ots/pkg/model"

// coalesce is pass 4, post-order: for any node with zero leaves and exactly
// one outgoing edge whose subtree also has zero leaves and exactly one
// outgoing edge of the same kind (both append or both prepend), fuse the
// two edges by concatenating operands and replacing them with a single
// edge to the subsubtree (spec.md §4.3.4). This undoes atomization where it
// is length-saving.
func coalesce(t *model.Tree) {
	for _, e := range t.Edges() {
		coalesce(e.Subtree)
	}

	for {
		if len(t.Leaves()) != 0 {
			return
		}
		edges := t.Edges()
		if len(edges) != 1 {
			return
		}
		op, sub := edges[0].Op, edges[0].Subtree
		if !fusable(op.Tag) || len(sub.Leaves()) != 0 {
			return
		}
		subEdges := sub.Edges()
		if len(subEdges) != 1 || subEdges[0].Op.Tag != op.Tag {
			return
		}
		op2, subsub := subEdges[0].Op, subEdges[0].Subtree
		fused := fuseOperands(op, op2)
		t.RemoveEdge(op)
		t.AddEdge(fused, subsub)
	}
}

func fusable(tag model.OpTag) bool {
	return tag == model.OpAppend || tag == model.OpPrepend
}

// fuseOperands concatenates an outer edge's operand with an inner edge's
// operand of the same kind: outer-then-inner for append, inner-then-outer
// for prepend (spec.md §4.3.4).
func fuseOperands(outer, inner model.Op) model.Op {
	if outer.Tag == model.OpAppend {
		return model.Append(concat(outer.Operand, inner.Operand))
	}
	return model.Prepend(concat(inner.Operand, outer.Operand))
}

func concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
