package normalize

import "github.com/opentimestamps/go-ots/pkg/model"

// NormalizeOps is pass 2: rewrite an operation list using the algebraic
// identities of spec.md §4.3.2 (reverse-reverse cancels; append/prepend
// commute across a pending reverse by reversing the operand). The scan
// maintains a growing prefix, a growing suffix, and a reverse-pending flag;
// a reverse swaps and reverses the accumulators and toggles the flag; an
// append/prepend concatenates into suffix/prefix; any other operation
// flushes the accumulators as single-byte prepend/append operations (the
// "atomized" canonical form) before and after emitting itself.
func NormalizeOps(ops []model.Op) []model.Op {
	var prefix, suffix []byte
	reversePending := false
	var out []model.Op

	flush := func() {
		if reversePending {
			out = append(out, model.Unary(model.OpReverse))
			reversePending = false
		}
		for i := len(prefix) - 1; i >= 0; i-- {
			out = append(out, model.Prepend(prefix[i:i+1]))
		}
		for j := 0; j < len(suffix); j++ {
			out = append(out, model.Append(suffix[j:j+1]))
		}
		prefix = nil
		suffix = nil
	}

	for _, op := range ops {
		switch op.Tag {
		case model.OpReverse:
			prefix, suffix = suffix, prefix
			prefix = reverseBytes(prefix)
			suffix = reverseBytes(suffix)
			reversePending = !reversePending
		case model.OpAppend:
			suffix = append(suffix, op.Operand...)
		case model.OpPrepend:
			prefix = append(append([]byte{}, op.Operand...), prefix...)
		default:
			flush()
			out = append(out, op)
		}
	}
	flush()
	return out
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
