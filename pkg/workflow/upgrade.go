package workflow

import (
	"context"
	"sync"

	"github.com/opentimestamps/go-ots/pkg/calendar"
	"github.com/opentimestamps/go-ots/pkg/metrics"
	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/normalize"
)

// upgradeLeg is one path's outcome: either itself unchanged (non-pending,
// or a failed fetch that leaves the path in its original pending form)
// or the set of paths substituted in from the calendar's upgraded tree.
type upgradeLeg struct {
	paths []model.Path
	err   *WorkflowError
}

// Upgrade implements spec.md §4.4 upgrade(timestamp): every pending leaf's
// calendar is fetched in parallel, each leg's failure is collected rather
// than raised, and the path stays in its original pending form on
// failure. The combined paths are rebuilt and re-normalized in the
// deterministic, input-path order described in spec.md §5.
func Upgrade(ctx context.Context, ts *model.Timestamp, client calendar.Client, rec *metrics.Recorder) (*model.Timestamp, []*WorkflowError) {
	paths := ts.Tree.Paths()

	legs := make([]upgradeLeg, len(paths))
	var wg sync.WaitGroup

	for i, p := range paths {
		if p.Leaf.Kind != model.LeafPending {
			legs[i] = upgradeLeg{paths: []model.Path{p}}
			continue
		}
		wg.Add(1)
		go func(i int, p model.Path) {
			defer wg.Done()
			legs[i] = upgradeOnePath(ctx, ts, p, client, rec)
		}(i, p)
	}
	wg.Wait()

	var newPaths []model.Path
	var errs []*WorkflowError
	for _, leg := range legs {
		newPaths = append(newPaths, leg.paths...)
		if leg.err != nil {
			errs = append(errs, leg.err)
		}
	}

	rebuilt := normalize.PathsToTree(newPaths)
	normalized, err := normalize.Tree(rebuilt)
	if err != nil {
		errs = append(errs, newWorkflowError("", err))
		return ts, errs
	}
	return &model.Timestamp{Version: ts.Version, FileHash: ts.FileHash, Tree: normalized}, errs
}

// upgradeOnePath fetches the upgraded tree for a single pending path and
// substitutes it in, or falls back to the unchanged pending path on
// failure (spec.md §4.4).
func upgradeOnePath(ctx context.Context, ts *model.Timestamp, p model.Path, client calendar.Client, rec *metrics.Recorder) upgradeLeg {
	msg, err := model.CallOps(p.Ops, ts.FileHash.Value)
	if err != nil {
		return upgradeLeg{paths: []model.Path{p}, err: newWorkflowError(p.Leaf.URL.String(), err)}
	}

	upgraded, err := client.Upgrade(ctx, p.Leaf.URL, msg)
	if err != nil {
		rec.CalendarRequest("upgrade", p.Leaf.URL.String(), "error")
		return upgradeLeg{paths: []model.Path{p}, err: newWorkflowError(p.Leaf.URL.String(), err)}
	}
	rec.CalendarRequest("upgrade", p.Leaf.URL.String(), "success")

	subPaths := upgraded.Paths()
	out := make([]model.Path, 0, len(subPaths))
	for _, sub := range subPaths {
		ops := make([]model.Op, 0, len(p.Ops)+len(sub.Ops))
		ops = append(ops, p.Ops...)
		ops = append(ops, sub.Ops...)
		out = append(out, model.Path{Ops: ops, Leaf: sub.Leaf})
	}
	return upgradeLeg{paths: out}
}
