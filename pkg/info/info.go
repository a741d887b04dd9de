// Package info renders a timestamp as a human-readable call tree
// (spec.md §4.6). This is pure computation: no I/O, no collaborators.
package info

import (
	"fmt"
	"strings"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/model"
)

// Render renders ts without the verbose hex-alignment lines (spec.md §9
// Open Question: Render/RenderVerbose are the two named entry points).
func Render(ts *model.Timestamp) string {
	return render(ts, false)
}

// RenderVerbose renders ts with the "# version:" header and every
// post-operation hex alignment line.
func RenderVerbose(ts *model.Timestamp) string {
	return render(ts, true)
}

func render(ts *model.Timestamp, verbose bool) string {
	var lines []string
	if verbose {
		lines = append(lines, fmt.Sprintf("# version: %d", ts.Version))
	}
	lines = append(lines, fmt.Sprintf("msg = %s(FILE)", ts.FileHash.Algorithm))
	if verbose {
		lines = append(lines, "    = "+bytesutil.ToHex(ts.FileHash.Value))
	}
	lines = append(lines, renderBlock(ts.FileHash.Value, ts.Tree, verbose)...)
	return strings.Join(lines, "\n")
}

// renderBlock renders tree's children (leaves in canonical order, then
// edges) given the message reaching tree. A single child renders inline;
// more than one child gets each block prefixed with " -> " on its first
// line and four spaces on every continuation line (spec.md §4.6).
func renderBlock(msg []byte, tree *model.Tree, verbose bool) []string {
	leaves := tree.SortedLeaves()
	edges := tree.SortedEdges()

	var blocks [][]string
	for _, leaf := range leaves {
		blocks = append(blocks, []string{leafLine(leaf)})
	}
	for _, edge := range edges {
		next, err := edge.Op.Call(msg)
		if err != nil {
			blocks = append(blocks, []string{fmt.Sprintf("msg = %s(msg) [error: %v]", edge.Op.Tag, err)})
			continue
		}
		block := []string{opLine(edge.Op)}
		if verbose {
			block = append(block, "    = "+bytesutil.ToHex(next))
		}
		block = append(block, renderBlock(next, edge.Subtree, verbose)...)
		blocks = append(blocks, block)
	}

	if len(blocks) <= 1 {
		var out []string
		for _, b := range blocks {
			out = append(out, b...)
		}
		return out
	}

	var out []string
	for _, b := range blocks {
		for i, line := range b {
			if i == 0 {
				out = append(out, " -> "+line)
			} else {
				out = append(out, "    "+line)
			}
		}
	}
	return out
}

func opLine(op model.Op) string {
	if op.Tag.IsBinary() {
		return fmt.Sprintf("msg = %s(msg, %s)", op.Tag, bytesutil.ToHex(op.Operand))
	}
	return fmt.Sprintf("msg = %s(msg)", op.Tag)
}

func leafLine(leaf model.Leaf) string {
	switch leaf.Kind {
	case model.LeafBitcoin:
		return fmt.Sprintf("bitcoinVerify(msg, %d)", leaf.Height)
	case model.LeafLitecoin:
		return fmt.Sprintf("litecoinVerify(msg, %d)", leaf.Height)
	case model.LeafEthereum:
		return fmt.Sprintf("ethereumVerify(msg, %d)", leaf.Height)
	case model.LeafPending:
		return fmt.Sprintf("pendingVerify(msg, %s)", leaf.URL)
	default:
		header := leaf.UnknownHeader
		return fmt.Sprintf("unknownVerify<%s>(msg, %s)", bytesutil.ToHex(header[:]), bytesutil.ToHex(leaf.Payload))
	}
}
