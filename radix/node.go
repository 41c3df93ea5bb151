package radix

import "github.com/outofforest/ftsradix/radix/store"

// Node is a byte-radix tree node. It is exactly the shape store.Node[K]
// describes: a tagged variant encoded by which of Keys/Children is nil
// (I4), never a separate enum field that could drift out of sync with
// them.
//
//   - Leaf:         Keys != nil, Children == nil
//   - NoKeysBranch: Keys == nil, Children != nil
//   - KeysBranch:   Keys != nil, Children != nil
type Node[K comparable] = store.Node[K]

func newLeaf[K comparable](factory store.Factory[K], edge []byte, key K) *Node[K] {
	bag := factory.NewKeyBag()
	bag.Add(key)
	return &Node[K]{Edge: edge, Keys: bag}
}

func newNoKeysBranch[K comparable](factory store.Factory[K], edge []byte) *Node[K] {
	return &Node[K]{Edge: edge, Children: factory.NewEdgeMap()}
}

// longestCommonPrefix returns the number of leading bytes a and b share.
func longestCommonPrefix(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
