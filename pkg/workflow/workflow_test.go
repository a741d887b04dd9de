package workflow_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentimestamps/go-ots/pkg/calendar"
	"github.com/opentimestamps/go-ots/pkg/codec"
	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/workflow"
)

// newPendingCalendar returns a calendar that answers /digest with a single
// pending leaf pointing back at its own host under https://, mirroring
// cmd/otscal's simulator (the reader accepts only https calendar URLs).
func newPendingCalendar(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/digest", func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tree := model.NewTree()
		tree.AddLeaf(model.PendingLeaf(model.URL("https://" + r.Host)))
		writeTreeResponse(t, w, tree)
	})
	srv = httptest.NewServer(mux)
	return srv
}

func newFailingCalendar(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "calendar unavailable", http.StatusInternalServerError)
	}))
}

// newUpgradingCalendar answers GET /timestamp/<hex> with a confirmed
// bitcoin leaf, regardless of which hex digest is requested.
func newUpgradingCalendar(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/timestamp/", func(w http.ResponseWriter, r *http.Request) {
		tree := model.NewTree()
		tree.AddLeaf(model.BitcoinLeaf(123456))
		writeTreeResponse(t, w, tree)
	})
	return httptest.NewServer(mux)
}

func writeTreeResponse(t *testing.T, w http.ResponseWriter, tree *model.Tree) {
	t.Helper()
	cw := codec.NewWriter()
	require.NoError(t, cw.WriteTree(tree))
	w.Header().Set("Content-Type", "application/vnd.opentimestamps.v1")
	w.Write(cw.Bytes())
}

func TestSubmit_MergesAcrossCalendarsDeterministically(t *testing.T) {
	good := newPendingCalendar(t)
	defer good.Close()
	bad := newFailingCalendar(t)
	defer bad.Close()

	client := calendar.NewHTTPClient(nil, nil)
	value := make([]byte, 32)
	ts, errs := workflow.Submit(
		context.Background(),
		model.AlgoSHA256,
		value,
		[]byte{}, // explicit empty fudge: no outer append wrapper
		nil,
		[]model.URL{model.URL(bad.URL), model.URL(good.URL)},
		client,
		nil,
	)
	require.NotNil(t, ts)
	require.Len(t, errs, 1)
	assert.Equal(t, bad.URL, errs[0].Calendar)

	// No outer append edge since fudge was explicitly empty: the tree's
	// sole top-level edge should be the sha256 wrapper.
	edges := ts.Tree.SortedEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, model.OpSHA256, edges[0].Op.Tag)

	leaves := edges[0].Subtree.SortedLeaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, model.LeafPending, leaves[0].Kind)
}

func TestSubmit_DrawsFudgeWhenNil(t *testing.T) {
	good := newPendingCalendar(t)
	defer good.Close()

	client := calendar.NewHTTPClient(nil, nil)
	ts, errs := workflow.Submit(
		context.Background(),
		model.AlgoSHA256,
		make([]byte, 32),
		nil,
		func() ([]byte, error) { return []byte{0x01, 0x02, 0x03}, nil },
		[]model.URL{model.URL(good.URL)},
		client,
		nil,
	)
	require.Empty(t, errs)
	edges := ts.Tree.SortedEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, model.OpAppend, edges[0].Op.Tag)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, edges[0].Op.Operand)
}

func TestUpgrade_ReplacesPendingLeafWithCalendarResult(t *testing.T) {
	calendarSrv := newUpgradingCalendar(t)
	defer calendarSrv.Close()

	tree := model.NewTree()
	tree.AddLeaf(model.PendingLeaf(model.URL(calendarSrv.URL)))
	ts := &model.Timestamp{
		Version:  model.SupportedVersion,
		FileHash: mustFileHash(t),
		Tree:     tree,
	}

	client := calendar.NewHTTPClient(nil, nil)
	upgraded, errs := workflow.Upgrade(context.Background(), ts, client, nil)
	require.Empty(t, errs)

	leaves := upgraded.Tree.SortedLeaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, model.LeafBitcoin, leaves[0].Kind)
	assert.Equal(t, uint64(123456), leaves[0].Height)
}

func TestUpgrade_FailureLeavesPendingPathUnchanged(t *testing.T) {
	bad := newFailingCalendar(t)
	defer bad.Close()

	tree := model.NewTree()
	tree.AddLeaf(model.PendingLeaf(model.URL(bad.URL)))
	ts := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: tree}

	client := calendar.NewHTTPClient(nil, nil)
	upgraded, errs := workflow.Upgrade(context.Background(), ts, client, nil)
	require.Len(t, errs, 1)

	leaves := upgraded.Tree.SortedLeaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, model.LeafPending, leaves[0].Kind)
}

func TestShrink_PicksMinHeightOnTargetChain(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(500))
	tree.AddLeaf(model.BitcoinLeaf(100))
	tree.AddLeaf(model.PendingLeaf(model.URL("https://calendar.example.com")))
	ts := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: tree}

	shrunk, err := workflow.Shrink(ts, model.LeafBitcoin)
	require.NoError(t, err)

	leaves := shrunk.Tree.SortedLeaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, uint64(100), leaves[0].Height)
}

func TestShrink_NoOpWhenCannotShrink(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(500))
	ts := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: tree}

	shrunk, err := workflow.Shrink(ts, model.LeafBitcoin)
	require.NoError(t, err)
	assert.True(t, ts.Tree.Equal(shrunk.Tree))
}

// TestShrink_SameChainOnlyStillCanShrink pins spec.md §8 S3: a tree with
// two bitcoin leaves at different heights and nothing else (no pending,
// no other chain) must still shrink to the lower-height leaf.
func TestShrink_SameChainOnlyStillCanShrink(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(500))
	tree.AddLeaf(model.BitcoinLeaf(123))
	ts := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: tree}

	require.True(t, workflow.CanShrink(ts, model.LeafBitcoin))

	shrunk, err := workflow.Shrink(ts, model.LeafBitcoin)
	require.NoError(t, err)

	leaves := shrunk.Tree.SortedLeaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, uint64(123), leaves[0].Height)
}

func TestPredicates(t *testing.T) {
	pending := model.NewTree()
	pending.AddLeaf(model.PendingLeaf(model.URL("https://calendar.example.com")))
	pendingOnly := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: pending}

	assert.True(t, workflow.CanUpgrade(pendingOnly))
	assert.False(t, workflow.CanVerify(pendingOnly))
	assert.False(t, workflow.CanShrink(pendingOnly, model.LeafBitcoin))

	mixed := model.NewTree()
	mixed.AddLeaf(model.BitcoinLeaf(1))
	mixed.AddLeaf(model.PendingLeaf(model.URL("https://calendar.example.com")))
	mixedTs := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: mixed}

	assert.True(t, workflow.CanShrink(mixedTs, model.LeafBitcoin))
	assert.True(t, workflow.CanVerify(mixedTs))
}

func mustFileHash(t *testing.T) model.FileHash {
	t.Helper()
	fh, err := model.NewFileHash(model.AlgoSHA256, make([]byte, 32))
	require.NoError(t, err)
	return fh
}
