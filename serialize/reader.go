package serialize

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/outofforest/ftsradix/codec"
	"github.com/outofforest/ftsradix/radix"
	"github.com/outofforest/ftsradix/radix/store"
)

// Load reads a stream written by Save/SaveCompressed and reconstructs a
// tree using factory for every node's containers. No partial tree is
// ever returned: the whole structure is built in memory first and only
// wrapped into a *radix.Tree on success (spec §7). The second return
// value is the number of distinct interned keys (I6), which is what
// Index.KeysCount is reset to after a Load.
func Load[K comparable](r io.Reader, factory store.Factory[K], c codec.Codec[K]) (*radix.Tree[K], int, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, 0, ErrTruncated
		}
		return nil, 0, err
	}
	if string(magic) != Magic {
		return nil, 0, ErrBadMagic
	}

	level, err := readInt32(br)
	if err != nil {
		return nil, 0, err
	}

	var src *bufio.Reader
	switch level {
	case CompressionNone:
		src = br
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrTruncated, err)
		}
		defer gz.Close()
		src = bufio.NewReader(gz)
	default:
		return nil, 0, ErrUnknownCompression
	}

	count, err := readInt32(src)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, ErrTruncated
	}
	intern := make([]K, count)
	for i := range intern {
		text, err := readString(src)
		if err != nil {
			return nil, 0, err
		}
		key, err := c.Decode(text)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrKeyCodec, err)
		}
		intern[i] = key
	}

	root, err := readNode(src, factory, intern)
	if err != nil {
		return nil, 0, err
	}

	return radix.NewFromRoot(factory, root), len(intern), nil
}

func readNode[K comparable](r *bufio.Reader, factory store.Factory[K], intern []K) (*radix.Node[K], error) {
	edgeLen, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	if edgeLen < 0 {
		return nil, ErrTruncated
	}
	var edge []byte
	if edgeLen > 0 {
		edge = make([]byte, edgeLen)
		if _, err := io.ReadFull(r, edge); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, ErrTruncated
			}
			return nil, err
		}
	}

	keyCount, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	childCount, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	if keyCount < 0 || childCount < 0 {
		return nil, ErrTruncated
	}

	n := &radix.Node[K]{Edge: edge}
	// Variant is derived from the counts, not stored explicitly:
	// child_count == 0 is always a Leaf (it still carries a key bag even
	// if, after a Remove before Save, that bag is now empty); otherwise
	// key_count == 0 means NoKeysBranch and key_count > 0 means
	// KeysBranch.
	if childCount == 0 || keyCount > 0 {
		n.Keys = factory.NewKeyBag()
	}
	if childCount > 0 {
		n.Children = factory.NewEdgeMap()
	}

	for i := int32(0); i < keyCount; i++ {
		idx, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		if idx < 0 || int(idx) >= len(intern) {
			return nil, ErrInternIndexOutOfRange
		}
		n.Keys.Add(intern[idx])
	}

	for i := int32(0); i < childCount; i++ {
		child, err := readNode(r, factory, intern)
		if err != nil {
			return nil, err
		}
		n.Children.Set(child.Edge, child)
	}

	return n, nil
}

func readInt32(r *bufio.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, ErrTruncated
		}
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}
