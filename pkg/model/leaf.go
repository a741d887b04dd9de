package model

import (
	"fmt"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
)

// LeafKind is the tagged variant discriminator for Leaf (spec.md §3).
type LeafKind int

const (
	LeafBitcoin LeafKind = iota
	LeafLitecoin
	LeafEthereum
	LeafPending
	LeafUnknown
)

func (k LeafKind) String() string {
	switch k {
	case LeafBitcoin:
		return "bitcoin"
	case LeafLitecoin:
		return "litecoin"
	case LeafEthereum:
		return "ethereum"
	case LeafPending:
		return "pending"
	case LeafUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// The eight-byte attestation headers, spec.md §6.
var (
	HeaderBitcoin  = [8]byte{0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01}
	HeaderLitecoin = [8]byte{0x06, 0x86, 0x9a, 0x0d, 0x73, 0xd7, 0x1b, 0x45}
	HeaderEthereum = [8]byte{0x30, 0xfe, 0x80, 0x87, 0xb5, 0xc7, 0xea, 0xd7}
	HeaderPending  = [8]byte{0x83, 0xdf, 0xe3, 0x0d, 0x2e, 0xf9, 0x0c, 0x8e}
)

// Leaf is a tagged attestation variant (spec.md §3). Only the fields
// relevant to Kind are meaningful:
//
//	LeafBitcoin/LeafLitecoin/LeafEthereum: Height
//	LeafPending: URL
//	LeafUnknown: UnknownHeader, Payload
type Leaf struct {
	Kind          LeafKind
	Height        uint64
	URL           URL
	UnknownHeader [8]byte
	Payload       []byte
}

// BitcoinLeaf constructs a bitcoin attestation leaf at the given height.
func BitcoinLeaf(height uint64) Leaf { return Leaf{Kind: LeafBitcoin, Height: height} }

// LitecoinLeaf constructs a litecoin attestation leaf at the given height.
func LitecoinLeaf(height uint64) Leaf { return Leaf{Kind: LeafLitecoin, Height: height} }

// EthereumLeaf constructs an ethereum attestation leaf at the given height.
func EthereumLeaf(height uint64) Leaf { return Leaf{Kind: LeafEthereum, Height: height} }

// PendingLeaf constructs a pending leaf naming calendar url.
func PendingLeaf(url URL) Leaf { return Leaf{Kind: LeafPending, URL: url} }

// UnknownLeaf constructs a forward-compatible unknown leaf, preserving an
// 8-byte header and arbitrary payload verbatim.
func UnknownLeaf(header [8]byte, payload []byte) Leaf {
	return Leaf{Kind: LeafUnknown, UnknownHeader: header, Payload: bytesutil.Clone(payload)}
}

// Header returns this leaf's 8-byte attestation header constant.
func (l Leaf) Header() [8]byte {
	switch l.Kind {
	case LeafBitcoin:
		return HeaderBitcoin
	case LeafLitecoin:
		return HeaderLitecoin
	case LeafEthereum:
		return HeaderEthereum
	case LeafPending:
		return HeaderPending
	default:
		return l.UnknownHeader
	}
}

// Chain reports whether this leaf is a chain attestation (bitcoin, litecoin,
// or ethereum) and, if so, its chain name ("bitcoin"/"litecoin"/"ethereum").
func (l Leaf) Chain() (string, bool) {
	switch l.Kind {
	case LeafBitcoin, LeafLitecoin, LeafEthereum:
		return l.Kind.String(), true
	default:
		return "", false
	}
}

// Key returns the canonical key string for this leaf (spec.md §3):
//
//	pending: "pending:<url-text>"
//	unknown: "unknown:<hex-header>:<hex-payload>"
//	chain:   "<type>:<height>"
func (l Leaf) Key() string {
	switch l.Kind {
	case LeafPending:
		return fmt.Sprintf("pending:%s", l.URL)
	case LeafUnknown:
		return fmt.Sprintf("unknown:%s:%s", bytesutil.ToHex(l.UnknownHeader[:]), bytesutil.ToHex(l.Payload))
	default:
		return fmt.Sprintf("%s:%d", l.Kind, l.Height)
	}
}

// Equal reports whether two leaves share a canonical key.
func (l Leaf) Equal(other Leaf) bool {
	return l.Key() == other.Key()
}

// Less implements the canonical leaf ordering (spec.md §3): first by 8-byte
// header bytes lexicographic, then pending by URL-text lex, unknown by
// payload lex, chain by height numeric.
func (l Leaf) Less(other Leaf) bool {
	lh, oh := l.Header(), other.Header()
	if c := bytesutil.Compare(lh[:], oh[:]); c != 0 {
		return c < 0
	}
	switch l.Kind {
	case LeafPending:
		return l.URL < other.URL
	case LeafUnknown:
		return bytesutil.Compare(l.Payload, other.Payload) < 0
	default:
		return l.Height < other.Height
	}
}

// Clone returns a deep-enough copy of l.
func (l Leaf) Clone() Leaf {
	out := l
	out.Payload = bytesutil.Clone(l.Payload)
	return out
}

// leafCombine implements the set-with-merge combine rule for leaves:
// left-biased retention of the incumbent (spec.md §3 Invariants).
func leafCombine(incumbent, _ Leaf) Leaf {
	return incumbent
}

func leafKey(l Leaf) string { return l.Key() }
