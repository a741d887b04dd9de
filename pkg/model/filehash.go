package model

import (
	"fmt"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/hashprims"
)

// Algorithm identifies a file-hash digest algorithm (spec.md §3).
type Algorithm int

const (
	AlgoSHA1 Algorithm = iota
	AlgoRIPEMD160
	AlgoSHA256
	AlgoKeccak256
)

// Tag is the algorithm's single wire byte (spec.md §6).
func (a Algorithm) Tag() (byte, error) {
	switch a {
	case AlgoSHA1:
		return 0x02, nil
	case AlgoRIPEMD160:
		return 0x03, nil
	case AlgoSHA256:
		return 0x08, nil
	case AlgoKeccak256:
		return 0x67, nil
	default:
		return 0, fmt.Errorf("model: unknown file-hash algorithm %d", a)
	}
}

// AlgorithmFromTag maps a wire tag byte back to an Algorithm.
func AlgorithmFromTag(tag byte) (Algorithm, error) {
	switch tag {
	case 0x02:
		return AlgoSHA1, nil
	case 0x03:
		return AlgoRIPEMD160, nil
	case 0x08:
		return AlgoSHA256, nil
	case 0x67:
		return AlgoKeccak256, nil
	default:
		return 0, fmt.Errorf("model: unknown file-hash algorithm tag 0x%02x", tag)
	}
}

// DigestLen returns the expected digest length in bytes for a.
func (a Algorithm) DigestLen() int {
	switch a {
	case AlgoSHA1, AlgoRIPEMD160:
		return 20
	case AlgoSHA256, AlgoKeccak256:
		return 32
	default:
		return 0
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgoSHA1:
		return "sha1"
	case AlgoRIPEMD160:
		return "ripemd160"
	case AlgoSHA256:
		return "sha256"
	case AlgoKeccak256:
		return "keccak256"
	default:
		return "unknown"
	}
}

// Digest computes the hash of data under algorithm a.
func (a Algorithm) Digest(data []byte) ([]byte, error) {
	switch a {
	case AlgoSHA1:
		return hashprims.SHA1(data), nil
	case AlgoRIPEMD160:
		return hashprims.RIPEMD160(data), nil
	case AlgoSHA256:
		return hashprims.SHA256(data), nil
	case AlgoKeccak256:
		return hashprims.Keccak256(data), nil
	default:
		return nil, fmt.Errorf("model: unknown file-hash algorithm %d", a)
	}
}

// FileHash is a (algorithm, digest value) pair (spec.md §3).
type FileHash struct {
	Algorithm Algorithm
	Value     []byte
}

// NewFileHash validates value's length against algorithm and constructs a
// FileHash.
func NewFileHash(algorithm Algorithm, value []byte) (FileHash, error) {
	fh := FileHash{Algorithm: algorithm, Value: bytesutil.Clone(value)}
	if err := fh.Validate(); err != nil {
		return FileHash{}, err
	}
	return fh, nil
}

// Validate checks the length invariant on Value for Algorithm (spec.md §3:
// 20 bytes for sha1/ripemd160, 32 bytes for sha256/keccak256).
func (f FileHash) Validate() error {
	want := f.Algorithm.DigestLen()
	if want == 0 {
		return &ValidationError{Field: "filehash.algorithm", Reason: fmt.Sprintf("unknown algorithm %d", f.Algorithm)}
	}
	if len(f.Value) != want {
		return &ValidationError{Field: "filehash.value", Reason: fmt.Sprintf("%s requires %d bytes, got %d", f.Algorithm, want, len(f.Value))}
	}
	return nil
}

// Clone returns a deep copy of f.
func (f FileHash) Clone() FileHash {
	return FileHash{Algorithm: f.Algorithm, Value: bytesutil.Clone(f.Value)}
}
