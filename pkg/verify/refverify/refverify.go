// Package refverify supplies one reference Verifier per chain, built on
// an injectable block-header source (spec.md §1 "the concrete
// blockchain-explorer verifier implementations" are out of the core's
// scope, but still need one runnable implementation to exercise the
// contract). Grounded on pkg/verification/unified_verifier.go's
// dispatch-by-chain-type pattern in the reference repository.
package refverify

import (
	"bytes"
	"context"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/verify"
)

// BlockHeaderSource looks up the Merkle root and UNIX block time for a
// chain and height. Implementations talk to a real block explorer; this
// package only defines the seam.
type BlockHeaderSource interface {
	MerkleRoot(ctx context.Context, chain model.LeafKind, height uint64) (root []byte, unixTime int64, err error)
}

// ChainVerifier is a reference Verifier for a single chain. Bitcoin and
// Litecoin serialize Merkle roots in the opposite byte order to how OTS
// computes them (spec.md §4.5), so Reverse should be true for those two
// and false for Ethereum.
type ChainVerifier struct {
	Chain   model.LeafKind
	Source  BlockHeaderSource
	Reverse bool
}

// NewBitcoinVerifier builds the reference bitcoin verifier.
func NewBitcoinVerifier(source BlockHeaderSource) verify.Verifier {
	cv := &ChainVerifier{Chain: model.LeafBitcoin, Source: source, Reverse: true}
	return verify.Verifier{Name: "bitcoin", Verify: cv.Verify}
}

// NewLitecoinVerifier builds the reference litecoin verifier.
func NewLitecoinVerifier(source BlockHeaderSource) verify.Verifier {
	cv := &ChainVerifier{Chain: model.LeafLitecoin, Source: source, Reverse: true}
	return verify.Verifier{Name: "litecoin", Verify: cv.Verify}
}

// NewEthereumVerifier builds the reference ethereum verifier.
func NewEthereumVerifier(source BlockHeaderSource) verify.Verifier {
	cv := &ChainVerifier{Chain: model.LeafEthereum, Source: source, Reverse: false}
	return verify.Verifier{Name: "ethereum", Verify: cv.Verify}
}

// Verify implements verify.VerifierFunc: unsupported for any other leaf
// kind, an error on a transport failure or Merkle mismatch, and the
// block's UNIX time on success.
func (cv *ChainVerifier) Verify(ctx context.Context, msg []byte, leaf model.Leaf) verify.Result {
	if leaf.Kind != cv.Chain {
		return verify.UnsupportedResult()
	}

	root, unixTime, err := cv.Source.MerkleRoot(ctx, cv.Chain, leaf.Height)
	if err != nil {
		return verify.FailedResult(&verify.VerifierError{Chain: cv.Chain.String(), Height: leaf.Height, Err: err})
	}

	compare := msg
	if cv.Reverse {
		compare = bytesutil.Reverse(msg)
	}
	if !bytes.Equal(compare, root) {
		return verify.FailedResult(&verify.MerkleMismatchError{Chain: cv.Chain.String(), Height: leaf.Height})
	}
	return verify.ConfirmedResult(unixTime)
}
