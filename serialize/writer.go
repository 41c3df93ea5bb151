package serialize

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"

	"github.com/outofforest/ftsradix/codec"
	"github.com/outofforest/ftsradix/radix"
)

// Save writes tree to w, uncompressed, in the format of spec §4.3.
// SaveCompressed gzip-deflates everything after the compression-level
// field.
//
// The tree body is built into a scratch buffer first (walking the tree
// exactly once, assigning intern-table slots to keys the first time each
// is seen) so the intern table's count and contents can be written ahead
// of it with a single pass over the tree, matching the source's
// scratch-buffer-first shape (spec §9).
func Save[K comparable](w io.Writer, tree *radix.Tree[K], c codec.Codec[K]) error {
	return save(w, tree, c, false)
}

// SaveCompressed is Save with the gzip envelope enabled.
func SaveCompressed[K comparable](w io.Writer, tree *radix.Tree[K], c codec.Codec[K]) error {
	return save(w, tree, c, true)
}

func save[K comparable](w io.Writer, tree *radix.Tree[K], c codec.Codec[K], compress bool) error {
	interned := map[K]uint32{}
	var order []K
	var body bytes.Buffer
	if err := writeNode(&body, tree.Root(), interned, &order, c); err != nil {
		return err
	}

	if _, err := io.WriteString(w, Magic); err != nil {
		return err
	}
	level := CompressionNone
	if compress {
		level = CompressionGzip
	}
	if err := writeInt32(w, level); err != nil {
		return err
	}

	dest := w
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(w)
		dest = gz
	}

	if err := writeInt32(dest, int32(len(order))); err != nil {
		return err
	}
	for _, key := range order {
		text, err := c.Encode(key)
		if err != nil {
			return err
		}
		if err := writeString(dest, text); err != nil {
			return err
		}
	}
	if _, err := body.WriteTo(dest); err != nil {
		return err
	}

	if gz != nil {
		return gz.Close()
	}
	return nil
}

// writeNode emits one node (edge, key indices, children) in pre-order,
// assigning each key its first-seen intern index as it is encountered.
func writeNode[K comparable](buf *bytes.Buffer, n *radix.Node[K], interned map[K]uint32, order *[]K, c codec.Codec[K]) error {
	if err := writeInt32(buf, int32(len(n.Edge))); err != nil {
		return err
	}
	if len(n.Edge) > 0 {
		if _, err := buf.Write(n.Edge); err != nil {
			return err
		}
	}

	var keys []K
	if n.Keys != nil {
		n.Keys.Range(func(k K) bool {
			keys = append(keys, k)
			return true
		})
	}
	if err := writeInt32(buf, int32(len(keys))); err != nil {
		return err
	}

	var children []*radix.Node[K]
	if n.Children != nil {
		n.Children.Range(func(_ []byte, child *radix.Node[K]) bool {
			children = append(children, child)
			return true
		})
	}
	if err := writeInt32(buf, int32(len(children))); err != nil {
		return err
	}

	for _, k := range keys {
		idx, ok := interned[k]
		if !ok {
			idx = uint32(len(*order))
			interned[k] = idx
			*order = append(*order, k)
		}
		if err := writeInt32(buf, int32(idx)); err != nil {
			return err
		}
	}

	for _, child := range children {
		if err := writeNode(buf, child, interned, order, c); err != nil {
			return err
		}
	}
	return nil
}

func writeInt32(w io.Writer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}
