// Package hashprims supplies the four hash primitives callOp dispatches on:
// sha1, ripemd160, sha256 and keccak256. spec.md §1 treats these as "assumed
// available as pure functions from byte sequence to fixed-length digest" and
// out of the core's scope; this package is where that assumption is
// satisfied concretely, so the rest of the library never imports a crypto
// package directly.
package hashprims

import (
	"crypto/sha1"
	"crypto/sha256"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160" //lint:ignore SA1019 removed from stdlib, this is the ecosystem replacement
)

// SHA1 returns the 20-byte SHA-1 digest of msg.
func SHA1(msg []byte) []byte {
	h := sha1.Sum(msg)
	return h[:]
}

// RIPEMD160 returns the 20-byte RIPEMD-160 digest of msg.
func RIPEMD160(msg []byte) []byte {
	h := ripemd160.New()
	h.Write(msg)
	return h.Sum(nil)
}

// SHA256 returns the 32-byte SHA-256 digest of msg.
func SHA256(msg []byte) []byte {
	h := sha256.Sum256(msg)
	return h[:]
}

// Keccak256 returns the 32-byte Keccak-256 digest of msg, the variant used
// by Ethereum (distinct from the later-standardized SHA3-256).
func Keccak256(msg []byte) []byte {
	return ethcrypto.Keccak256(msg)
}
