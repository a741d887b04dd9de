package normalize

import "github.com/opentimestamps/go-ots/pkg/model"

// PathsToTree is pass 3: rebuild a tree by folding each path from the leaf
// upward (wrapping each subtree in a single-edge tree) and merging all
// paths (spec.md §4.3.3).
func PathsToTree(paths []model.Path) *model.Tree {
	out := model.NewTree()
	for _, p := range paths {
		sub := model.NewTree()
		sub.AddLeaf(p.Leaf)
		for i := len(p.Ops) - 1; i >= 0; i-- {
			wrapped := model.NewTree()
			wrapped.AddEdge(p.Ops[i], sub)
			sub = wrapped
		}
		out = model.Merge(out, sub)
	}
	return out
}
