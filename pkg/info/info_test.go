package info_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentimestamps/go-ots/pkg/info"
	"github.com/opentimestamps/go-ots/pkg/model"
)

func mustTimestamp(t *testing.T, tree *model.Tree) *model.Timestamp {
	t.Helper()
	fh, err := model.NewFileHash(model.AlgoSHA256, make([]byte, 32))
	require.NoError(t, err)
	return &model.Timestamp{Version: model.SupportedVersion, FileHash: fh, Tree: tree}
}

func TestRender_SingleLeafInlinesNoArrow(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(500))
	ts := mustTimestamp(t, tree)

	out := info.Render(ts)
	assert.Contains(t, out, "msg = sha256(FILE)")
	assert.Contains(t, out, "bitcoinVerify(msg, 500)")
	assert.NotContains(t, out, " -> ")
}

func TestRender_MultipleChildrenGetArrowPrefix(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(500))
	tree.AddLeaf(model.PendingLeaf(model.URL("https://calendar.example.com")))
	ts := mustTimestamp(t, tree)

	out := info.Render(ts)
	lines := strings.Split(out, "\n")
	var arrowCount int
	for _, l := range lines {
		if strings.HasPrefix(l, " -> ") {
			arrowCount++
		}
	}
	assert.Equal(t, 2, arrowCount, "both children of a multi-child node get an arrow-prefixed first line")
}

func TestRenderVerbose_IncludesVersionAndHexLines(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(1))
	ts := mustTimestamp(t, tree)

	out := info.RenderVerbose(ts)
	assert.Contains(t, out, "# version:")
	assert.Contains(t, out, "    = ")
}

func TestRender_OmitsVersionHeaderWhenNotVerbose(t *testing.T) {
	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(1))
	ts := mustTimestamp(t, tree)

	out := info.Render(ts)
	assert.NotContains(t, out, "# version:")
}

func TestRender_UnaryOpLineHasNoOperand(t *testing.T) {
	sub := model.NewTree()
	sub.AddLeaf(model.BitcoinLeaf(1))
	tree := model.NewTree()
	tree.AddEdge(model.Unary(model.OpSHA256), sub)
	ts := mustTimestamp(t, tree)

	out := info.Render(ts)
	assert.Contains(t, out, "msg = sha256(msg)")
}

func TestRender_BinaryOpLineHasHexOperand(t *testing.T) {
	sub := model.NewTree()
	sub.AddLeaf(model.BitcoinLeaf(1))
	tree := model.NewTree()
	tree.AddEdge(model.Append([]byte{0xab, 0xcd}), sub)
	ts := mustTimestamp(t, tree)

	out := info.Render(ts)
	assert.Contains(t, out, "msg = append(msg, abcd)")
}
