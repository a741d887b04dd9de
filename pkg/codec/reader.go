package codec

import (
	"bytes"
	"fmt"

	"github.com/opentimestamps/go-ots/pkg/model"
	"github.com/opentimestamps/go-ots/pkg/normalize"
)

// Reader consumes a byte buffer with a cursor (spec.md §4.1).
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for reading from position 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the reader's current cursor position.
func (r *Reader) Pos() int { return r.pos }

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// GetBytes advances by n, failing with ErrUnexpectedEOF if insufficient.
func (r *Reader) GetBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, errEOFAt(r.pos)
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// GetByte reads and advances past a single byte.
func (r *Reader) GetByte() (byte, error) {
	b, err := r.GetBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// PeekByte returns the next byte without advancing the cursor. ok is false
// at end of buffer.
func (r *Reader) PeekByte() (b byte, ok bool) {
	if r.pos >= len(r.buf) {
		return 0, false
	}
	return r.buf[r.pos], true
}

// ReadLiteral consumes len(expected) bytes and fails with
// ErrLiteralMismatch, reporting position and both operands, if they differ.
func (r *Reader) ReadLiteral(expected []byte) error {
	got, err := r.GetBytes(len(expected))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, expected) {
		return errLiteralMismatchAt(r.pos-len(expected), expected, got)
	}
	return nil
}

// maxVarintGroups bounds readUint's continuation-byte count: 9 groups of 7
// payload bits cover exactly [0, 2^63), spec.md §9's chosen overflow policy.
const maxVarintGroups = 9

// ReadUint reads a little-endian, 7-bits-per-byte varint (spec.md §4.1,
// §6). It rejects values that would need a 10th continuation group with
// ErrInvalidLength rather than silently wrapping.
func (r *Reader) ReadUint() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; ; i++ {
		if i >= maxVarintGroups {
			return 0, fmt.Errorf("%w: varint exceeds 63 bits at position %d", ErrInvalidLength, r.pos)
		}
		b, err := r.GetByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// ReadBytes reads a length-prefixed byte string: <uint length><length octets>.
func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadUint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, errEOFAt(r.pos)
	}
	return r.GetBytes(int(n))
}

// ReadURL reads a length-prefixed byte string, decodes it as ASCII text,
// and validates it against the calendar URL grammar (spec.md §6).
func (r *Reader) ReadURL() (model.URL, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	for _, b := range raw {
		if b >= 0x80 {
			return "", fmt.Errorf("%w: non-ASCII byte in url", ErrInvalidURL)
		}
	}
	u, err := model.ParseURL(string(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return u, nil
}

// ReadFileHash reads one algorithm tag byte followed by the fixed-length
// digest (spec.md §4.1, §6).
func (r *Reader) ReadFileHash() (model.FileHash, error) {
	tag, err := r.GetByte()
	if err != nil {
		return model.FileHash{}, err
	}
	algo, err := model.AlgorithmFromTag(tag)
	if err != nil {
		return model.FileHash{}, fmt.Errorf("%w: tag 0x%02x", ErrUnknownAlgorithm, tag)
	}
	digest, err := r.GetBytes(algo.DigestLen())
	if err != nil {
		return model.FileHash{}, err
	}
	return model.FileHash{Algorithm: algo, Value: append([]byte(nil), digest...)}, nil
}

// ReadVersion reads a uint and accepts only 1, else ErrUnsupportedVersion.
func (r *Reader) ReadVersion() (int, error) {
	v, err := r.ReadUint()
	if err != nil {
		return 0, err
	}
	if v != model.SupportedVersion {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	return int(v), nil
}

// readLeafBody reads 8 header bytes then a length-prefixed payload,
// dispatching on the header to a chain/pending/unknown leaf (spec.md
// §4.1 readLeaf).
func (r *Reader) readLeafBody() (model.Leaf, error) {
	headerBytes, err := r.GetBytes(8)
	if err != nil {
		return model.Leaf{}, err
	}
	var header [8]byte
	copy(header[:], headerBytes)

	payload, err := r.ReadBytes()
	if err != nil {
		return model.Leaf{}, err
	}

	switch header {
	case model.HeaderBitcoin, model.HeaderLitecoin, model.HeaderEthereum:
		sub := NewReader(payload)
		height, err := sub.ReadUint()
		if err != nil {
			return model.Leaf{}, err
		}
		if sub.Remaining() != 0 {
			return model.Leaf{}, ErrPayloadTrailingGarbage
		}
		switch header {
		case model.HeaderBitcoin:
			return model.BitcoinLeaf(height), nil
		case model.HeaderLitecoin:
			return model.LitecoinLeaf(height), nil
		default:
			return model.EthereumLeaf(height), nil
		}
	case model.HeaderPending:
		sub := NewReader(payload)
		url, err := sub.ReadURL()
		if err != nil {
			return model.Leaf{}, err
		}
		if sub.Remaining() != 0 {
			return model.Leaf{}, ErrPayloadTrailingGarbage
		}
		return model.PendingLeaf(url), nil
	default:
		return model.UnknownLeaf(header, payload), nil
	}
}

// readEdgeOrLeaf reads one tag byte and inserts the resulting leaf or edge
// into tree via its merge-union (spec.md §4.1 readEdgeOrLeaf).
func (r *Reader) readEdgeOrLeaf(tree *model.Tree) error {
	tag, err := r.GetByte()
	if err != nil {
		return err
	}
	if tag == leafTag {
		leaf, err := r.readLeafBody()
		if err != nil {
			return err
		}
		tree.AddLeaf(leaf)
		return nil
	}

	opTag := model.OpTag(tag)
	if !opTag.Known() {
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOperation, tag)
	}

	if opTag.IsBinary() {
		operand, err := r.ReadBytes()
		if err != nil {
			return err
		}
		subtree, err := r.ReadTree()
		if err != nil {
			return err
		}
		tree.AddEdge(model.Op{Tag: opTag, Operand: operand}, subtree)
		return nil
	}

	subtree, err := r.ReadTree()
	if err != nil {
		return err
	}
	tree.AddEdge(model.Unary(opTag), subtree)
	return nil
}

// ReadTree reads zero or more "<0xff><item>" groups followed by one final
// item (spec.md §4.1, §6): a tree always has at least one child.
func (r *Reader) ReadTree() (*model.Tree, error) {
	tree := model.NewTree()
	for {
		b, ok := r.PeekByte()
		if !ok || b != nonFinalMarker {
			break
		}
		if _, err := r.GetByte(); err != nil {
			return nil, err
		}
		if err := r.readEdgeOrLeaf(tree); err != nil {
			return nil, err
		}
	}
	if err := r.readEdgeOrLeaf(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// Read parses a complete detached timestamp file: magic header, version,
// file hash, tree, and fails on any trailing bytes (spec.md §4.1 "read
// (top level)"). The result is normalized before being returned.
func Read(buf []byte) (*model.Timestamp, error) {
	r := NewReader(buf)
	if err := r.ReadLiteral(MagicHeader); err != nil {
		return nil, err
	}
	if _, err := r.ReadVersion(); err != nil {
		return nil, err
	}
	fileHash, err := r.ReadFileHash()
	if err != nil {
		return nil, err
	}
	tree, err := r.ReadTree()
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, ErrTrailingGarbage
	}
	raw := &model.Timestamp{Version: model.SupportedVersion, FileHash: fileHash, Tree: tree}
	normalized, err := normalize.Timestamp(raw)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return normalized, nil
}

// ReadTreeStrict reads a single tree from buf starting at position 0 and
// fails if any bytes remain afterward. This is the shape a calendar's
// submit/upgrade response takes (spec.md §4.4: "a valid serialized tree
// from position 0 with no trailing bytes").
func ReadTreeStrict(buf []byte) (*model.Tree, error) {
	r := NewReader(buf)
	tree, err := r.ReadTree()
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, ErrTrailingGarbage
	}
	return tree, nil
}
