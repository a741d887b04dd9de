package verify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/verify"
)

func TestGetLeaves_DepthFirstAppliesOpsAlongPath(t *testing.T) {
	msg := []byte("abc")

	sub := model.NewTree()
	sub.AddLeaf(model.BitcoinLeaf(1))

	tree := model.NewTree()
	tree.AddLeaf(model.PendingLeaf(model.URL("https://calendar.example.com")))
	tree.AddEdge(model.Append([]byte{0xff}), sub)

	pairs, err := verify.GetLeaves(msg, tree)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	var gotDirect, gotAppended bool
	for _, p := range pairs {
		if p.Leaf.Kind == model.LeafPending {
			assert.Equal(t, msg, p.Msg)
			gotDirect = true
		}
		if p.Leaf.Kind == model.LeafBitcoin {
			want, err := model.Append([]byte{0xff}).Call(msg)
			require.NoError(t, err)
			assert.Equal(t, want, p.Msg)
			gotAppended = true
		}
	}
	assert.True(t, gotDirect)
	assert.True(t, gotAppended)
}

func bitcoinOnlyVerifier(outcome func(leaf model.Leaf) verify.Result) verify.Verifier {
	return verify.Verifier{
		Name: "bitcoin-test",
		Verify: func(_ context.Context, _ []byte, leaf model.Leaf) verify.Result {
			if leaf.Kind != model.LeafBitcoin {
				return verify.UnsupportedResult()
			}
			return outcome(leaf)
		},
	}
}

func TestRun_AggregatesConfirmedByUnixTime(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(1))
	tree.AddLeaf(model.PendingLeaf(model.URL("https://calendar.example.com")))

	ts := &model.Timestamp{
		Version:  model.SupportedVersion,
		FileHash: mustFileHash(t),
		Tree:     tree,
	}

	v := bitcoinOnlyVerifier(func(model.Leaf) verify.Result { return verify.ConfirmedResult(1700000000) })
	report, err := verify.Run(context.Background(), ts, []verify.Verifier{v}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"bitcoin-test"}, report.Attestations[1700000000])
	assert.Empty(t, report.Errors)
}

func TestRun_CollectsVerifierErrors(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(1))

	ts := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: tree}

	failErr := errors.New("merkle mismatch")
	v := bitcoinOnlyVerifier(func(model.Leaf) verify.Result { return verify.FailedResult(failErr) })
	report, err := verify.Run(context.Background(), ts, []verify.Verifier{v}, nil)
	require.NoError(t, err)

	require.Len(t, report.Errors["bitcoin-test"], 1)
	assert.ErrorIs(t, report.Errors["bitcoin-test"][0], failErr)
	assert.Empty(t, report.Attestations)
}

func TestRun_UnsupportedLeafRecordsNothing(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.EthereumLeaf(1))

	ts := &model.Timestamp{Version: model.SupportedVersion, FileHash: mustFileHash(t), Tree: tree}

	v := bitcoinOnlyVerifier(func(model.Leaf) verify.Result { return verify.ConfirmedResult(1) })
	report, err := verify.Run(context.Background(), ts, []verify.Verifier{v}, nil)
	require.NoError(t, err)

	assert.Empty(t, report.Attestations)
	assert.Empty(t, report.Errors)
}

func mustFileHash(t *testing.T) model.FileHash {
	t.Helper()
	fh, err := model.NewFileHash(model.AlgoSHA256, make([]byte, 32))
	require.NoError(t, err)
	return fh
}
