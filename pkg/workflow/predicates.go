package workflow

import "github.com/opentimestamps/go-ots/pkg/model"

// CanShrink reports whether ts has at least one leaf on chain and at
// least one other leaf, which may be on the same chain at a different
// height, on a different chain, or pending (spec.md §4.4; spec.md §8 S3:
// two bitcoin leaves at different heights and nothing else still
// canShrink("bitcoin")).
func CanShrink(ts *model.Timestamp, chain model.LeafKind) bool {
	total, onChain := 0, 0
	for _, p := range ts.Tree.Paths() {
		total++
		if p.Leaf.Kind == chain {
			onChain++
		}
	}
	return onChain > 0 && total > 1
}

// CanUpgrade reports whether ts has at least one pending leaf anywhere in
// its tree (spec.md §4.4).
func CanUpgrade(ts *model.Timestamp) bool {
	for _, p := range ts.Tree.Paths() {
		if p.Leaf.Kind == model.LeafPending {
			return true
		}
	}
	return false
}

// CanVerify reports whether ts has at least one non-pending leaf anywhere
// in its tree (spec.md §4.4).
func CanVerify(ts *model.Timestamp) bool {
	for _, p := range ts.Tree.Paths() {
		if p.Leaf.Kind != model.LeafPending {
			return true
		}
	}
	return false
}
