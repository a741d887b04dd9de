// Package bytesutil provides the reversible-hex and byte-comparison helpers
// shared by the codec, the entity model, and the info renderer.
package bytesutil

import (
	"bytes"
	"encoding/hex"
)

// ToHex renders b as lowercase, unprefixed hex. This is the canonical-key and
// wire-format hex convention used throughout the model (spec canonical keys
// embed hex substrings directly, with no "0x" prefix).
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex is the inverse of ToHex. It rejects odd-length or non-hex input.
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// Concat returns the concatenation of parts without mutating any of them.
func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Reverse returns a new slice containing b's bytes in reverse order.
func Reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// Compare gives the lexicographic ordering of a and b, used for every
// canonical ordering rule in the model (leaf order, operand order).
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// Clone returns a defensive copy of b. A nil input returns nil.
func Clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
