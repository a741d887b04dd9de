package workflow

import "crypto/rand"

// fudgeLen is the number of random bytes drawn for submit's default fudge
// (spec.md §4.4).
const fudgeLen = 16

// FudgeSource draws the random salt bytes submit appends to a file hash
// before submission. Callers needing deterministic tests inject their own
// (spec.md §5 "Shared resource": the per-process RNG must be injectable).
type FudgeSource func() ([]byte, error)

// DefaultFudgeSource draws fudgeLen bytes from crypto/rand. crypto/rand is
// the reference repository's own choice for secret-quality randomness
// (pkg/crypto/bls, pkg/attestation/strategy/ed25519_strategy.go); no
// ecosystem library improves on it here.
func DefaultFudgeSource() ([]byte, error) {
	b := make([]byte, fudgeLen)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
