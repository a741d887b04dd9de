// Package model implements the OpenTimestamps entity model: operations,
// leaves, the commitment tree, file hashes and timestamps, along with their
// canonical keys, orderings, and the callOp/callOps execution semantics
// (spec.md §3, §4.7).
package model

import (
	"fmt"

	"github.com/opentimestamps/go-ots/pkg/bytesutil"
	"github.com/opentimestamps/go-ots/pkg/hashprims"
)

// OpTag is the single-byte wire tag identifying an operation variant.
type OpTag byte

// Operation tags, spec.md §3.
const (
	OpSHA1      OpTag = 0x02
	OpRIPEMD160 OpTag = 0x03
	OpSHA256    OpTag = 0x08
	OpKeccak256 OpTag = 0x67
	OpAppend    OpTag = 0xf0
	OpPrepend   OpTag = 0xf1
	OpReverse   OpTag = 0xf2
	OpHexlify   OpTag = 0xf3
)

// IsUnary reports whether tag identifies a unary operation (no operand).
func (t OpTag) IsUnary() bool {
	switch t {
	case OpSHA1, OpRIPEMD160, OpSHA256, OpKeccak256, OpReverse, OpHexlify:
		return true
	}
	return false
}

// IsBinary reports whether tag identifies a binary (operand-carrying)
// operation.
func (t OpTag) IsBinary() bool {
	return t == OpAppend || t == OpPrepend
}

// Known reports whether tag is one of the eight defined operation variants.
func (t OpTag) Known() bool {
	return t.IsUnary() || t.IsBinary()
}

func (t OpTag) String() string {
	switch t {
	case OpSHA1:
		return "sha1"
	case OpRIPEMD160:
		return "ripemd160"
	case OpSHA256:
		return "sha256"
	case OpKeccak256:
		return "keccak256"
	case OpAppend:
		return "append"
	case OpPrepend:
		return "prepend"
	case OpReverse:
		return "reverse"
	case OpHexlify:
		return "hexlify"
	default:
		return fmt.Sprintf("op(0x%02x)", byte(t))
	}
}

// Op is a tagged operation, spec.md §3. Operand is populated only for
// Append/Prepend.
type Op struct {
	Tag     OpTag
	Operand []byte
}

// Unary constructs a unary operation.
func Unary(tag OpTag) Op {
	return Op{Tag: tag}
}

// Append constructs an append operation carrying operand.
func Append(operand []byte) Op {
	return Op{Tag: OpAppend, Operand: bytesutil.Clone(operand)}
}

// Prepend constructs a prepend operation carrying operand.
func Prepend(operand []byte) Op {
	return Op{Tag: OpPrepend, Operand: bytesutil.Clone(operand)}
}

// Key returns the canonical key string for this operation (spec.md §3):
// "<type>:<hex-operand>" for append/prepend, "<type>" otherwise.
func (o Op) Key() string {
	if o.Tag.IsBinary() {
		return fmt.Sprintf("%s:%s", o.Tag, bytesutil.ToHex(o.Operand))
	}
	return o.Tag.String()
}

// Equal reports whether two operations are identical by canonical key.
func (o Op) Equal(other Op) bool {
	return o.Key() == other.Key()
}

// Less implements the canonical operation ordering (spec.md §3): first by
// tag byte numeric, then for append/prepend by operand lexicographic.
func (o Op) Less(other Op) bool {
	if o.Tag != other.Tag {
		return o.Tag < other.Tag
	}
	if o.Tag.IsBinary() {
		return bytesutil.Compare(o.Operand, other.Operand) < 0
	}
	return false
}

// Clone returns a deep-enough copy of o: mutating the clone's Operand never
// affects o's.
func (o Op) Clone() Op {
	return Op{Tag: o.Tag, Operand: bytesutil.Clone(o.Operand)}
}

// Call executes the operation against msg, spec.md §4.7.
func (o Op) Call(msg []byte) ([]byte, error) {
	switch o.Tag {
	case OpSHA1:
		return hashprims.SHA1(msg), nil
	case OpRIPEMD160:
		return hashprims.RIPEMD160(msg), nil
	case OpSHA256:
		return hashprims.SHA256(msg), nil
	case OpKeccak256:
		return hashprims.Keccak256(msg), nil
	case OpAppend:
		return bytesutil.Concat(msg, o.Operand), nil
	case OpPrepend:
		return bytesutil.Concat(o.Operand, msg), nil
	case OpReverse:
		return bytesutil.Reverse(msg), nil
	case OpHexlify:
		return []byte(bytesutil.ToHex(msg)), nil
	default:
		return nil, fmt.Errorf("model: unknown operation tag 0x%02x", byte(o.Tag))
	}
}

// CallOps folds Call over ops left to right, starting from msg.
func CallOps(ops []Op, msg []byte) ([]byte, error) {
	cur := msg
	for _, op := range ops {
		next, err := op.Call(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
