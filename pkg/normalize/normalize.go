// Package normalize implements the five-pass tree normalization pipeline of
// spec.md §4.3: treeToPaths, per-path operation normalization, pathsToTree,
// coalesceOperations, decoalesceOperations. The pipeline rewrites a tree
// into the canonical, minimal-serialization form so that two semantically
// equivalent timestamps serialize identically.
package normalize

import (
	"errors"

	"github.com/opentimestamps/go-ots/pkg/model"
)

// ErrEmptyResult is returned when normalization reduces a timestamp's tree
// to empty; spec.md §4.3: "If the resulting tree is empty, the timestamp is
// rejected (return 'none')".
var ErrEmptyResult = errors.New("normalize: resulting tree is empty")

// Timestamp runs the full five-pass pipeline over ts and returns a new,
// normalized timestamp. ts is left unmodified.
func Timestamp(ts *model.Timestamp) (*model.Timestamp, error) {
	tree, err := Tree(ts.Tree)
	if err != nil {
		return nil, err
	}
	return &model.Timestamp{Version: ts.Version, FileHash: ts.FileHash, Tree: tree}, nil
}

// Tree runs the five-pass pipeline over a bare tree (used by workflows that
// rebuild a tree from paths without a full Timestamp in hand, e.g. upgrade
// and shrink). t is left unmodified.
func Tree(t *model.Tree) (*model.Tree, error) {
	paths := TreeToPaths(t)
	normalizedPaths := make([]model.Path, 0, len(paths))
	for _, p := range paths {
		normalizedPaths = append(normalizedPaths, model.Path{Ops: NormalizeOps(p.Ops), Leaf: p.Leaf})
	}
	out := PathsToTree(normalizedPaths)
	coalesce(out)
	decoalesce(out)
	if out.IsEmpty() {
		return nil, ErrEmptyResult
	}
	return out, nil
}

// TreeToPaths is pass 1: depth-first enumeration of t into root-to-leaf
// paths (spec.md §4.3.1).
func TreeToPaths(t *model.Tree) []model.Path {
	return t.Paths()
}
