package model

import "fmt"

// SupportedVersion is the only version value a Timestamp currently accepts
// (spec.md §3).
const SupportedVersion = 1

// Timestamp is the (version, fileHash, tree) triple (spec.md §3).
type Timestamp struct {
	Version  int
	FileHash FileHash
	Tree     *Tree
}

// New constructs a Timestamp, validating the file hash and rejecting an
// empty tree (spec.md §3 Invariants: "A well-formed timestamp's tree is
// non-empty.").
func New(fileHash FileHash, tree *Tree) (*Timestamp, error) {
	if err := fileHash.Validate(); err != nil {
		return nil, err
	}
	if tree == nil || tree.IsEmpty() {
		return nil, &ValidationError{Field: "timestamp.tree", Reason: "tree must not be empty"}
	}
	return &Timestamp{Version: SupportedVersion, FileHash: fileHash, Tree: tree}, nil
}

// Validate checks the timestamp's invariants without constructing a new
// value; used after workflows or the codec fill in fields directly.
func (t *Timestamp) Validate() error {
	if t == nil {
		return &ValidationError{Field: "timestamp", Reason: "nil"}
	}
	if t.Version != SupportedVersion {
		return &ValidationError{Field: "timestamp.version", Reason: fmt.Sprintf("unsupported version %d", t.Version)}
	}
	if err := t.FileHash.Validate(); err != nil {
		return err
	}
	if t.Tree == nil || t.Tree.IsEmpty() {
		return &ValidationError{Field: "timestamp.tree", Reason: "tree must not be empty"}
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Timestamp) Clone() *Timestamp {
	if t == nil {
		return nil
	}
	return &Timestamp{
		Version:  t.Version,
		FileHash: t.FileHash.Clone(),
		Tree:     t.Tree.Clone(),
	}
}

// Equal reports whether t and other have equal version, file hash, and
// structurally equal trees.
func (t *Timestamp) Equal(other *Timestamp) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Version != other.Version {
		return false
	}
	if t.FileHash.Algorithm != other.FileHash.Algorithm {
		return false
	}
	if string(t.FileHash.Value) != string(other.FileHash.Value) {
		return false
	}
	return t.Tree.Equal(other.Tree)
}
