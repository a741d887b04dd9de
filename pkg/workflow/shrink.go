package workflow

import (
	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/normalize"
)

// Shrink implements spec.md §4.4 shrink(timestamp, chain): pure
// computation, no remote collaborator, so it returns a single error
// rather than a collected slice. Meaningful only when CanShrink holds;
// otherwise the timestamp passes through unchanged.
func Shrink(ts *model.Timestamp, chain model.LeafKind) (*model.Timestamp, error) {
	if !CanShrink(ts, chain) {
		return ts, nil
	}

	paths := ts.Tree.Paths()
	var best *model.Path
	for i := range paths {
		p := &paths[i]
		if p.Leaf.Kind != chain {
			continue
		}
		if best == nil || p.Leaf.Height < best.Leaf.Height {
			best = p
		}
	}
	if best == nil {
		return ts, nil
	}

	rebuilt := normalize.PathsToTree([]model.Path{*best})
	normalized, err := normalize.Tree(rebuilt)
	if err != nil {
		return nil, err
	}
	return &model.Timestamp{Version: ts.Version, FileHash: ts.FileHash, Tree: normalized}, nil
}
