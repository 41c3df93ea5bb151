// Package radix implements the byte-level radix tree that is the core of
// the index: insertion with the split algorithm of spec §4.1, prefix
// lookup, whole-tree iteration, and key removal. The tree never looks at
// text or queries — it only knows about byte strings ("tokens") and
// opaque keys.
package radix

import (
	"iter"

	"github.com/outofforest/ftsradix/radix/store"
)

// Tree is a mutable byte-radix tree. The zero value is not usable; build
// one with New. A Tree owns every node reachable from its root and is not
// safe for concurrent structural mutation beyond whatever the chosen
// store.Factory promises (§5).
type Tree[K comparable] struct {
	factory store.Factory[K]
	root    *Node[K]
}

// New returns an empty tree whose nodes are built with factory. The root
// is always a NoKeysBranch with an empty edge (I1).
func New[K comparable](factory store.Factory[K]) *Tree[K] {
	return &Tree[K]{
		factory: factory,
		root:    newNoKeysBranch[K](factory, nil),
	}
}

// Root exposes the underlying root node, mainly for the serializer, which
// walks the tree structurally rather than through the lazy-sequence
// contracts below.
func (t *Tree[K]) Root() *Node[K] { return t.root }

// NewFromRoot wraps an already-built root node in a Tree. This exists for
// Load: the deserializer reconstructs nodes bottom-up into a detached
// root and only wraps it into a Tree once parsing has fully succeeded,
// so a failed Load never leaves a partially-built tree observable
// (spec §7).
func NewFromRoot[K comparable](factory store.Factory[K], root *Node[K]) *Tree[K] {
	return &Tree[K]{factory: factory, root: root}
}

// Factory returns the store.Factory the tree was built with, so callers
// (notably Load) can reconstruct nodes using the same container flavor.
func (t *Tree[K]) Factory() store.Factory[K] { return t.factory }

// Insert mutates the tree so that every prefix of token accumulates key
// in that node's key bag, per the split algorithm of spec §4.1. An empty
// token is a no-op.
func (t *Tree[K]) Insert(key K, token []byte) {
	if len(token) == 0 {
		return
	}
	t.insert(t.root, key, token)
}

func (t *Tree[K]) insert(branch *Node[K], key K, remaining []byte) {
	// Case 1: exact-edge child exists.
	if child, ok := branch.Children.Get(remaining); ok {
		if child.Keys == nil {
			child.Keys = t.factory.NewKeyBag()
		}
		child.Keys.Add(key)
		return
	}

	// Case 2: find the first child sharing a non-empty prefix with
	// remaining. Under I3 at most one can exist; we stop at the first.
	var match *Node[K]
	matchLen := 0
	branch.Children.Range(func(edge []byte, n *Node[K]) bool {
		if m := longestCommonPrefix(edge, remaining); m > 0 {
			match = n
			matchLen = m
			return false
		}
		return true
	})

	// Case 3: no such child — brand new leaf.
	if match == nil {
		branch.Children.Set(remaining, newLeaf(t.factory, remaining, key))
		return
	}

	if matchLen == len(match.Edge) {
		// Case 4: match covers the whole child edge. Because case 1 found
		// no exact match, remaining must be strictly longer than
		// match.Edge here.
		if match.Keys == nil {
			// 4a: NoKeysBranch — recurse deeper.
			t.insert(match, key, remaining[matchLen:])
			return
		}
		// 4b: split — match's keys migrate onto a new KeysBranch that
		// keeps match's edge and children; the new key gets a fresh leaf
		// edge beneath it.
		promoted := &Node[K]{
			Edge:     match.Edge,
			Keys:     match.Keys,
			Children: match.Children,
		}
		if promoted.Children == nil {
			promoted.Children = t.factory.NewEdgeMap()
		}
		rest := remaining[matchLen:]
		promoted.Children.Set(rest, newLeaf(t.factory, rest, key))
		branch.Children.Set(match.Edge, promoted)
		return
	}

	// Case 5: true split. 0 < matchLen < len(match.Edge).
	branch.Children.Delete(match.Edge)
	top := newNoKeysBranch(t.factory, remaining[:matchLen])
	rebased := &Node[K]{
		Edge:     match.Edge[matchLen:],
		Keys:     match.Keys,
		Children: match.Children,
	}
	top.Children.Set(rebased.Edge, rebased)
	rest := remaining[matchLen:]
	if len(rest) == 0 {
		// remaining ends exactly at the split point: the new branch itself
		// carries key (KeysBranch) instead of an empty-edge leaf.
		top.Keys = t.factory.NewKeyBag()
		top.Keys.Add(key)
	} else {
		top.Children.Set(rest, newLeaf(t.factory, rest, key))
	}
	branch.Children.Set(top.Edge, top)
}

// LookupPrefix returns every key stored at or under the first node whose
// path matches prefix, in tree-traversal order. The sequence is neither
// deduplicated nor sorted — callers distinct it themselves (spec §4.1).
func (t *Tree[K]) LookupPrefix(prefix []byte) iter.Seq[K] {
	return func(yield func(K) bool) {
		descendPrefix(t.root, prefix, yield)
	}
}

// descendPrefix walks from n following prefix bytes, yielding the whole
// matched subtree once the query is exhausted. It returns false once the
// caller's yield has asked to stop, so callers can break out of deep
// recursions.
func descendPrefix[K comparable](n *Node[K], remaining []byte, yield func(K) bool) bool {
	if len(n.Edge) > 0 {
		m := longestCommonPrefix(n.Edge, remaining)
		switch {
		case m == 0:
			return true
		case m == len(remaining):
			return emitSubtree(n, yield)
		case m == len(n.Edge):
			remaining = remaining[m:]
		default:
			// Partial overlap on both sides: a genuine mismatch.
			return true
		}
	}
	if n.Children == nil {
		return true
	}
	cont := true
	n.Children.Range(func(_ []byte, child *Node[K]) bool {
		cont = descendPrefix(child, remaining, yield)
		return cont
	})
	return cont
}

// emitSubtree yields every key in n's own bag followed by every key in
// its descendants, in tree-traversal order (parent before children,
// siblings in child-table iteration order).
func emitSubtree[K comparable](n *Node[K], yield func(K) bool) bool {
	if n.Keys != nil {
		cont := true
		n.Keys.Range(func(k K) bool {
			cont = yield(k)
			return cont
		})
		if !cont {
			return false
		}
	}
	if n.Children != nil {
		cont := true
		n.Children.Range(func(_ []byte, child *Node[K]) bool {
			cont = emitSubtree(child, yield)
			return cont
		})
		if !cont {
			return false
		}
	}
	return true
}

// AllKeys returns every key in every node's bag, in tree-traversal order.
func (t *Tree[K]) AllKeys() iter.Seq[K] {
	return func(yield func(K) bool) {
		emitSubtree(t.root, yield)
	}
}

// Remove deletes every key in keys from every node's bag it appears in
// and reports how many distinct keys among them were present at least
// once. There is no structural compaction afterward: empty key bags and
// empty branches are left in place (spec §3 "Lifecycle").
func (t *Tree[K]) Remove(keys []K) int {
	if len(keys) == 0 {
		return 0
	}
	target := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		target[k] = struct{}{}
	}
	found := make(map[K]struct{}, len(target))

	var walk func(n *Node[K])
	walk = func(n *Node[K]) {
		if n.Keys != nil {
			for k := range target {
				if n.Keys.Remove(k) {
					found[k] = struct{}{}
				}
			}
		}
		if n.Children != nil {
			n.Children.Range(func(_ []byte, child *Node[K]) bool {
				walk(child)
				return true
			})
		}
	}
	walk(t.root)
	return len(found)
}
