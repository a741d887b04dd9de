package workflow

import (
	"context"
	"sync"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/calendar"
	"github.com/opentimestamps/go-ots/pkg/hashprims"
	"github.com/opentimestamps/go-ots/pkg/metrics"
	"github.com/opentimestamps/go-ots/pkg/model"
)

// Submit implements spec.md §4.4 submit(algorithm, value, fudge?,
// calendars?). A nil fudge is drawn from source (DefaultFudgeSource, which
// yields fudgeLen random bytes, if source is nil); a non-nil, possibly
// empty, fudge is used as given. Every per-calendar failure is collected into the
// returned slice rather than aborting the call.
func Submit(
	ctx context.Context,
	algorithm model.Algorithm,
	value []byte,
	fudge []byte,
	source FudgeSource,
	calendars []model.URL,
	client calendar.Client,
	rec *metrics.Recorder,
) (*model.Timestamp, []*WorkflowError) {
	fileHash, err := model.NewFileHash(algorithm, value)
	if err != nil {
		return nil, []*WorkflowError{newWorkflowError("", err)}
	}

	if fudge == nil {
		if source == nil {
			source = DefaultFudgeSource
		}
		drawn, err := source()
		if err != nil {
			return nil, []*WorkflowError{newWorkflowError("", err)}
		}
		fudge = drawn
	}

	fudgedValue := hashprims.SHA256(bytesutil.Concat(fileHash.Value, fudge))

	type legResult struct {
		url  model.URL
		tree *model.Tree
		err  error
	}
	results := make([]legResult, len(calendars))
	var wg sync.WaitGroup
	for i, url := range calendars {
		wg.Add(1)
		go func(i int, url model.URL) {
			defer wg.Done()
			tree, err := client.Submit(ctx, url, fudgedValue)
			results[i] = legResult{url: url, tree: tree, err: err}
		}(i, url)
	}
	wg.Wait()

	merged := model.NewTree()
	var errs []*WorkflowError
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, newWorkflowError(r.url.String(), r.err))
			rec.CalendarRequest("submit", r.url.String(), "error")
			continue
		}
		merged = model.Merge(merged, r.tree)
		rec.CalendarRequest("submit", r.url.String(), "success")
	}

	shaTree := model.NewTree()
	shaTree.AddEdge(model.Unary(model.OpSHA256), merged)

	tree := shaTree
	if len(fudge) > 0 {
		tree = model.NewTree()
		tree.AddEdge(model.Append(fudge), shaTree)
	}

	return &model.Timestamp{Version: model.SupportedVersion, FileHash: fileHash, Tree: tree}, errs
}
