package model

import (
	"sort"

	"github.com/opentimestamps/go-ots/pkg/container"
)

// Edge is a (Op, *Tree) pair: the tree encoding's canonical name for an
// operation and the subtree reached by executing it.
type Edge struct {
	Op      Op
	Subtree *Tree
}

// Tree is a node with a set of leaves and a map from operation to subtree
// (spec.md §3). It owns its children: there are no back-references, so
// clones are deep copies and equality is structural after canonical
// sorting.
type Tree struct {
	leaves *container.Set[Leaf]
	edges  *container.Map[Op, *Tree]
}

func opKey(o Op) string { return o.Key() }

// edgeCombine implements the map-with-merge combine rule for operation ->
// subtree edges: recursive structural union (spec.md §3 Invariants).
func edgeCombine(incumbent, incoming *Tree) *Tree {
	incumbent.absorb(incoming)
	return incumbent
}

// NewTree constructs an empty tree.
func NewTree() *Tree {
	return &Tree{
		leaves: container.NewSet(leafKey, leafCombine),
		edges:  container.NewMap(opKey, edgeCombine),
	}
}

// IsEmpty reports whether the tree has neither leaves nor edges.
// spec.md §3: "An empty tree has both empty. A valid timestamp never
// contains a fully empty tree."
func (t *Tree) IsEmpty() bool {
	return t.leaves.Size() == 0 && t.edges.Size() == 0
}

// AddLeaf inserts leaf, merging with any leaf of the same canonical key.
func (t *Tree) AddLeaf(leaf Leaf) {
	t.leaves.Add(leaf)
}

// AddEdge inserts an edge to subtree via op, merging with any existing edge
// under the same operation key by recursive structural union.
func (t *Tree) AddEdge(op Op, subtree *Tree) {
	t.edges.Set(op, subtree)
}

// RemoveEdge deletes the edge keyed by op, if present. Used by the
// normalization passes that rewrite a node's outgoing edges in place.
func (t *Tree) RemoveEdge(op Op) {
	t.edges.Remove(op.Key())
}

// RemoveLeaf deletes the leaf keyed by leaf, if present.
func (t *Tree) RemoveLeaf(leaf Leaf) {
	t.leaves.Remove(leaf.Key())
}

// Leaves returns the tree's direct leaves in insertion order.
func (t *Tree) Leaves() []Leaf {
	return t.leaves.Values()
}

// Edges returns the tree's direct (operation, subtree) edges in insertion
// order.
func (t *Tree) Edges() []Edge {
	entries := t.edges.Entries()
	out := make([]Edge, 0, len(entries))
	for _, e := range entries {
		out = append(out, Edge{Op: e.Key, Subtree: e.Value})
	}
	return out
}

// SortedLeaves returns the tree's direct leaves in canonical order.
func (t *Tree) SortedLeaves() []Leaf {
	leaves := t.Leaves()
	sort.SliceStable(leaves, func(i, j int) bool { return leaves[i].Less(leaves[j]) })
	return leaves
}

// SortedEdges returns the tree's direct edges in canonical order.
func (t *Tree) SortedEdges() []Edge {
	edges := t.Edges()
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Op.Less(edges[j].Op) })
	return edges
}

// absorb merges other's leaves and edges into t in place (the recursive
// structural union of spec.md §3).
func (t *Tree) absorb(other *Tree) {
	if other == nil {
		return
	}
	t.leaves.Incorporate(other.leaves)
	t.edges.Incorporate(other.edges)
}

// Path is a linear sequence of operations ending in a leaf, extracted from
// a tree by depth-first traversal (spec.md Glossary: Path).
type Path struct {
	Ops  []Op
	Leaf Leaf
}

// Paths enumerates every root-to-leaf path in the tree by depth-first
// traversal, in canonical child order. A multiset in spec.md terms: two
// leaves reachable by the same operation sequence both appear.
func (t *Tree) Paths() []Path {
	var out []Path
	for _, leaf := range t.SortedLeaves() {
		out = append(out, Path{Leaf: leaf})
	}
	for _, edge := range t.SortedEdges() {
		for _, sub := range edge.Subtree.Paths() {
			ops := make([]Op, 0, len(sub.Ops)+1)
			ops = append(ops, edge.Op)
			ops = append(ops, sub.Ops...)
			out = append(out, Path{Ops: ops, Leaf: sub.Leaf})
		}
	}
	return out
}

// Merge returns a new tree that is the structural union of t and other,
// leaving both inputs unmodified.
func Merge(t, other *Tree) *Tree {
	out := NewTree()
	if t != nil {
		out.absorb(t.Clone())
	}
	if other != nil {
		out.absorb(other.Clone())
	}
	return out
}

// Clone returns a deep copy of t: mutating the clone never affects t.
func (t *Tree) Clone() *Tree {
	out := NewTree()
	for _, l := range t.Leaves() {
		out.AddLeaf(l.Clone())
	}
	for _, e := range t.Edges() {
		out.AddEdge(e.Op.Clone(), e.Subtree.Clone())
	}
	return out
}

// Equal reports whether t and other have the same canonical-key leaf set
// and the same canonical-key edge set with structurally equal subtrees.
func (t *Tree) Equal(other *Tree) bool {
	if other == nil {
		return t == nil
	}
	tl, ol := t.SortedLeaves(), other.SortedLeaves()
	if len(tl) != len(ol) {
		return false
	}
	for i := range tl {
		if tl[i].Key() != ol[i].Key() {
			return false
		}
	}
	te, oe := t.SortedEdges(), other.SortedEdges()
	if len(te) != len(oe) {
		return false
	}
	for i := range te {
		if te[i].Op.Key() != oe[i].Op.Key() {
			return false
		}
		if !te[i].Subtree.Equal(oe[i].Subtree) {
			return false
		}
	}
	return true
}
