package codec_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentimestamps/go-ots/pkg/codec"
	"github.com/opentimestamps/go-ots/pkg/model"
)

// s1Hex is spec.md §8 S1: minimal bitcoin timestamp.
const s1Hex = `
00 4f 70 65 6e 54 69 6d 65 73 74 61 6d 70 73 00 00 50 72 6f 6f 66 00
bf 89 e2 e8 84 e8 92 94 01 02 00 11 22 33 44 55 66 77 88 99 aa bb cc
dd ee ff 00 11 22 33 00 05 88 96 0d 73 d7 19 01 01 7b`

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	clean := strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(clean)
	require.NoError(t, err)
	return b
}

func TestRead_S1_MinimalBitcoinTimestamp(t *testing.T) {
	buf := mustDecodeHex(t, s1Hex)
	ts, err := codec.Read(buf)
	require.NoError(t, err)

	assert.Equal(t, model.SupportedVersion, ts.Version)
	assert.Equal(t, model.AlgoSHA1, ts.FileHash.Algorithm)
	assert.Equal(t, mustDecodeHex(t, "00112233445566778899aabbccddeeff00112233"), ts.FileHash.Value)

	leaves := ts.Tree.SortedLeaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, model.LeafBitcoin, leaves[0].Kind)
	assert.Equal(t, uint64(123), leaves[0].Height)
	assert.Empty(t, ts.Tree.SortedEdges())
}

func TestRead_S2_TrailingGarbageRejected(t *testing.T) {
	buf := append(mustDecodeHex(t, s1Hex), mustDecodeHex(t, "04 05 06 07 08 09")...)
	_, err := codec.Read(buf)
	require.ErrorIs(t, err, codec.ErrTrailingGarbage)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	fileHash, err := model.NewFileHash(model.AlgoSHA256, make([]byte, 32))
	require.NoError(t, err)

	tree := model.NewTree()
	tree.AddLeaf(model.BitcoinLeaf(500000))
	tree.AddLeaf(model.PendingLeaf(model.URL("https://calendar.example.com")))

	ts := &model.Timestamp{Version: model.SupportedVersion, FileHash: fileHash, Tree: tree}

	buf, err := codec.Write(ts)
	require.NoError(t, err)

	roundTripped, err := codec.Read(buf)
	require.NoError(t, err)

	assert.True(t, ts.Equal(roundTripped), "read(write(ts)) should equal ts after normalization")
}

func TestReadUint_VarintBoundary(t *testing.T) {
	// MSB continuation bit set on the last readable byte: UnexpectedEOF.
	r := codec.NewReader([]byte{0x80})
	_, err := r.ReadUint()
	require.ErrorIs(t, err, codec.ErrUnexpectedEOF)
}

func TestReadUint_OverflowRejected(t *testing.T) {
	// Ten continuation groups exceed the 63-bit cap (spec.md §9).
	buf := make([]byte, 10)
	for i := range buf {
		buf[i] = 0x81
	}
	buf[9] = 0x01
	r := codec.NewReader(buf)
	_, err := r.ReadUint()
	require.ErrorIs(t, err, codec.ErrInvalidLength)
}

func TestReadLeafBody_PayloadTrailingGarbageRejected(t *testing.T) {
	// A bitcoin leaf whose height payload carries one extra byte.
	buf := mustDecodeHex(t, "00 05 88 96 0d 73 d7 19 01 02 7b 00")
	r := codec.NewReader(buf)
	_, err := r.ReadTree()
	require.ErrorIs(t, err, codec.ErrPayloadTrailingGarbage)
}
