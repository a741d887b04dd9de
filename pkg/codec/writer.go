package codec

import (
	"bytes"
	"fmt"

	"github.com/opentimestamps/go-ots/pkg/model"
)

// Writer accumulates the detached-timestamp binary encoding (spec.md §4.1
// "Write"), the inverse of Reader.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter constructs an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns everything written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// PutBytes appends raw bytes verbatim.
func (w *Writer) PutBytes(b []byte) {
	w.buf.Write(b)
}

// PutByte appends a single byte.
func (w *Writer) PutByte(b byte) {
	w.buf.WriteByte(b)
}

// WriteUint encodes n as a little-endian, 7-bits-per-byte varint (spec.md
// §4.1, §6). Zero encodes as a single 0x00 byte.
func (w *Writer) WriteUint(n uint64) {
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			w.PutByte(b | 0x80)
			continue
		}
		w.PutByte(b)
		return
	}
}

// WriteBytes encodes b as <uint length><length octets>.
func (w *Writer) WriteBytes(b []byte) {
	w.WriteUint(uint64(len(b)))
	w.PutBytes(b)
}

// WriteURL encodes a calendar URL as a length-prefixed ASCII byte string.
func (w *Writer) WriteURL(u model.URL) {
	w.WriteBytes([]byte(u.String()))
}

// WriteFileHash encodes the algorithm tag byte followed by the raw digest.
func (w *Writer) WriteFileHash(fh model.FileHash) error {
	tag, err := fh.Algorithm.Tag()
	if err != nil {
		return err
	}
	w.PutByte(tag)
	w.PutBytes(fh.Value)
	return nil
}

// WriteVersion encodes the timestamp version as a uint.
func (w *Writer) WriteVersion(v int) {
	w.WriteUint(uint64(v))
}

// writeLeafBody encodes a leaf's 8-byte header followed by its
// length-prefixed payload (spec.md §4.1 "Tree writing rule").
func (w *Writer) writeLeafBody(leaf model.Leaf) error {
	header := leaf.Header()
	w.PutBytes(header[:])

	switch leaf.Kind {
	case model.LeafBitcoin, model.LeafLitecoin, model.LeafEthereum:
		inner := NewWriter()
		inner.WriteUint(leaf.Height)
		w.WriteBytes(inner.Bytes())
	case model.LeafPending:
		inner := NewWriter()
		inner.WriteURL(leaf.URL)
		w.WriteBytes(inner.Bytes())
	case model.LeafUnknown:
		w.WriteBytes(leaf.Payload)
	default:
		return fmt.Errorf("codec: unknown leaf kind %d", leaf.Kind)
	}
	return nil
}

// writeEdge encodes one operation edge: tag byte, optional length-prefixed
// operand, then the recursive subtree.
func (w *Writer) writeEdge(edge model.Edge) error {
	w.PutByte(byte(edge.Op.Tag))
	if edge.Op.Tag.IsBinary() {
		w.WriteBytes(edge.Op.Operand)
	}
	return w.WriteTree(edge.Subtree)
}

// WriteTree encodes a tree's leaves and edges in canonical order,
// prefixing every element but the last with the non-final marker 0xff
// (spec.md §4.1, §6).
func (w *Writer) WriteTree(t *model.Tree) error {
	leaves := t.SortedLeaves()
	edges := t.SortedEdges()
	total := len(leaves) + len(edges)
	if total == 0 {
		return fmt.Errorf("codec: cannot encode an empty tree")
	}

	emitted := 0
	emitMarkerIfNotLast := func() {
		emitted++
		if emitted < total {
			w.PutByte(nonFinalMarker)
		}
	}

	for _, leaf := range leaves {
		w.PutByte(leafTag)
		if err := w.writeLeafBody(leaf); err != nil {
			return err
		}
		emitMarkerIfNotLast()
	}
	for _, edge := range edges {
		if err := w.writeEdge(edge); err != nil {
			return err
		}
		emitMarkerIfNotLast()
	}
	return nil
}

// Write serializes a complete detached timestamp file: magic header,
// version, file hash, tree (spec.md §4.1 "Write").
func Write(ts *model.Timestamp) ([]byte, error) {
	w := NewWriter()
	w.PutBytes(MagicHeader)
	w.WriteVersion(ts.Version)
	if err := w.WriteFileHash(ts.FileHash); err != nil {
		return nil, err
	}
	if err := w.WriteTree(ts.Tree); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
