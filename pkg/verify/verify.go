// Package verify implements the verifier contract and aggregation driver
// of spec.md §4.5. Concrete blockchain-explorer verifiers live outside
// this package (spec.md §1 "the core only defines the verifier
// contract"); pkg/verify/refverify supplies one reference implementation
// per chain to exercise the contract against.
package verify

import (
	"context"

	"github.com/opentimestamps/go-ots/pkg/model"
)

// Outcome is the three-way result a Verifier reports for one (msg, leaf)
// pair (spec.md §4.5).
type Outcome int

const (
	// Unsupported means the verifier does not handle this leaf's type at
	// all (e.g. a bitcoin verifier given a litecoin leaf).
	Unsupported Outcome = iota
	// Confirmed means the verifier checked the leaf and it matches; Result
	// carries the block's UNIX time.
	Confirmed
	// Failed means the verifier handles this leaf's type but verification
	// did not succeed (e.g. a Merkle-root mismatch, or a transport error
	// reaching the block-header source).
	Failed
)

// Result is what a Verifier returns for one (msg, leaf) pair.
type Result struct {
	Outcome  Outcome
	UnixTime int64
	Err      error
}

// UnsupportedResult builds a Result for a leaf type this verifier doesn't
// handle.
func UnsupportedResult() Result { return Result{Outcome: Unsupported} }

// ConfirmedResult builds a Result for a leaf confirmed at unixTime.
func ConfirmedResult(unixTime int64) Result { return Result{Outcome: Confirmed, UnixTime: unixTime} }

// FailedResult builds a Result for a leaf this verifier handles but could
// not confirm.
func FailedResult(err error) Result { return Result{Outcome: Failed, Err: err} }

// VerifierFunc is the verification contract: given the message reaching a
// leaf and the leaf itself, report Unsupported/Confirmed/Failed (spec.md
// §4.5). Context is accepted because a real verifier's block-header
// lookup is itself a suspension point (spec.md §5).
type VerifierFunc func(ctx context.Context, msg []byte, leaf model.Leaf) Result

// Verifier names a VerifierFunc for aggregation bucketing.
type Verifier struct {
	Name   string
	Verify VerifierFunc
}

// LeafMsg pairs a leaf with the message that reaches it.
type LeafMsg struct {
	Msg  []byte
	Leaf model.Leaf
}

// GetLeaves performs the depth-first traversal of spec.md §4.5: at each
// edge, compute msg' = callOp(op, msg) and recurse, collecting every
// (msg', leaf) pair reached.
func GetLeaves(msg []byte, tree *model.Tree) ([]LeafMsg, error) {
	var out []LeafMsg
	for _, leaf := range tree.Leaves() {
		out = append(out, LeafMsg{Msg: msg, Leaf: leaf})
	}
	for _, edge := range tree.Edges() {
		next, err := edge.Op.Call(msg)
		if err != nil {
			return nil, err
		}
		sub, err := GetLeaves(next, edge.Subtree)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// Report is the verification driver's aggregate result (spec.md §4.5).
type Report struct {
	// Attestations maps a confirmed UNIX block time to every verifier name
	// that confirmed it.
	Attestations map[int64][]string
	// Errors maps a verifier name to every per-leaf failure it reported.
	Errors map[string][]error
}

// metricsRecorder is the minimal surface verify needs from pkg/metrics,
// kept local so verify never imports the concrete Prometheus type.
type metricsRecorder interface {
	VerifyOutcome(verifier, outcome string)
}

// Run executes every verifier against every (msg, leaf) pair in ts's tree
// and aggregates the results (spec.md §4.5). rec may be nil.
func Run(ctx context.Context, ts *model.Timestamp, verifiers []Verifier, rec metricsRecorder) (*Report, error) {
	pairs, err := GetLeaves(ts.FileHash.Value, ts.Tree)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Attestations: make(map[int64][]string),
		Errors:       make(map[string][]error),
	}
	for _, pair := range pairs {
		for _, v := range verifiers {
			res := v.Verify(ctx, pair.Msg, pair.Leaf)
			switch res.Outcome {
			case Confirmed:
				report.Attestations[res.UnixTime] = append(report.Attestations[res.UnixTime], v.Name)
				if rec != nil {
					rec.VerifyOutcome(v.Name, "confirmed")
				}
			case Failed:
				report.Errors[v.Name] = append(report.Errors[v.Name], res.Err)
				if rec != nil {
					rec.VerifyOutcome(v.Name, "error")
				}
			default:
				if rec != nil {
					rec.VerifyOutcome(v.Name, "unsupported")
				}
			}
		}
	}
	return report, nil
}
