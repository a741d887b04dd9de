package refverify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/verify"
	"github.com/opentimestamps/go-ots/pkg/verify/refverify"
)

type fakeSource struct {
	root     []byte
	unixTime int64
	err      error
}

func (f fakeSource) MerkleRoot(_ context.Context, _ model.LeafKind, _ uint64) ([]byte, int64, error) {
	return f.root, f.unixTime, f.err
}

func TestBitcoinVerifier_ConfirmsOnReversedMatch(t *testing.T) {
	msg := []byte{0x01, 0x02, 0x03, 0x04}
	source := fakeSource{root: bytesutil.Reverse(msg), unixTime: 1700000000}

	v := refverify.NewBitcoinVerifier(source)
	res := v.Verify(context.Background(), msg, model.BitcoinLeaf(500))

	require.Equal(t, verify.Confirmed, res.Outcome)
	assert.Equal(t, int64(1700000000), res.UnixTime)
}

func TestBitcoinVerifier_FailsOnMismatch(t *testing.T) {
	msg := []byte{0x01, 0x02, 0x03, 0x04}
	source := fakeSource{root: []byte{0xff, 0xff, 0xff, 0xff}, unixTime: 1700000000}

	v := refverify.NewBitcoinVerifier(source)
	res := v.Verify(context.Background(), msg, model.BitcoinLeaf(500))

	assert.Equal(t, verify.Failed, res.Outcome)
	var mismatch *verify.MerkleMismatchError
	assert.ErrorAs(t, res.Err, &mismatch)
}

func TestEthereumVerifier_ComparesWithoutReversal(t *testing.T) {
	msg := []byte{0x01, 0x02, 0x03, 0x04}
	source := fakeSource{root: msg, unixTime: 1700000001}

	v := refverify.NewEthereumVerifier(source)
	res := v.Verify(context.Background(), msg, model.EthereumLeaf(9))

	require.Equal(t, verify.Confirmed, res.Outcome)
	assert.Equal(t, int64(1700000001), res.UnixTime)
}

func TestChainVerifier_UnsupportedForOtherChain(t *testing.T) {
	v := refverify.NewBitcoinVerifier(fakeSource{})
	res := v.Verify(context.Background(), []byte("x"), model.EthereumLeaf(1))
	assert.Equal(t, verify.Unsupported, res.Outcome)
}

func TestChainVerifier_TransportErrorWraps(t *testing.T) {
	sourceErr := errors.New("rpc timeout")
	v := refverify.NewBitcoinVerifier(fakeSource{err: sourceErr})
	res := v.Verify(context.Background(), []byte("x"), model.BitcoinLeaf(1))

	assert.Equal(t, verify.Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, sourceErr)
}
