package store

import "sync"

// guardedFactory builds containers that wrap the basic flavor's ordered
// edge map, and a set-semantics key bag, behind a single mutex per
// container. Every
// mutation and every read acquires that container's lock; Range takes a
// snapshot at acquisition time so a long-running iteration never blocks a
// writer or observes a half-mutated container (§5 "Guarded flavor").
type guardedFactory[K comparable] struct{}

// NewGuarded returns a Factory whose containers serialize access with a
// mutex per container. Safe for concurrent readers and writers; not
// globally atomic across containers (concurrent inserts of different
// tokens may interleave).
func NewGuarded[K comparable]() Factory[K] {
	return guardedFactory[K]{}
}

func (guardedFactory[K]) NewEdgeMap() EdgeMap[K] {
	return &guardedEdgeMap[K]{inner: newBasicEdgeMap[K]()}
}

func (guardedFactory[K]) NewKeyBag() KeyBag[K] {
	return &guardedKeyBag[K]{keys: make(map[K]struct{})}
}

type guardedEdgeMap[K comparable] struct {
	mu    sync.Mutex
	inner *basicEdgeMap[K]
}

func (m *guardedEdgeMap[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Len()
}

func (m *guardedEdgeMap[K]) Get(edge []byte) (*Node[K], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Get(edge)
}

func (m *guardedEdgeMap[K]) Set(edge []byte, n *Node[K]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inner.Set(edge, n)
}

func (m *guardedEdgeMap[K]) Delete(edge []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inner.Delete(edge)
}

// Range snapshots the current (edge, node) pairs before calling fn so
// that a writer mutating the map mid-iteration can't be observed
// half-applied, and so fn can itself re-enter the map without deadlock.
func (m *guardedEdgeMap[K]) Range(fn func(edge []byte, n *Node[K]) bool) {
	m.mu.Lock()
	snapshot := make([]struct {
		edge []byte
		node *Node[K]
	}, 0, len(m.inner.order))
	for _, key := range m.inner.order {
		snapshot = append(snapshot, struct {
			edge []byte
			node *Node[K]
		}{[]byte(key), m.inner.nodes[key]})
	}
	m.mu.Unlock()

	for _, e := range snapshot {
		if !fn(e.edge, e.node) {
			return
		}
	}
}

// guardedKeyBag uses set semantics: Add silently dedupes, diverging from
// the basic flavor's list (spec §9, an intentional source asymmetry we
// preserve rather than normalize away).
type guardedKeyBag[K comparable] struct {
	mu   sync.Mutex
	keys map[K]struct{}
}

func (b *guardedKeyBag[K]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.keys)
}

func (b *guardedKeyBag[K]) Add(k K) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[k] = struct{}{}
}

func (b *guardedKeyBag[K]) Remove(k K) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.keys[k]; !ok {
		return false
	}
	delete(b.keys, k)
	return true
}

func (b *guardedKeyBag[K]) Range(fn func(k K) bool) {
	b.mu.Lock()
	snapshot := make([]K, 0, len(b.keys))
	for k := range b.keys {
		snapshot = append(snapshot, k)
	}
	b.mu.Unlock()

	for _, k := range snapshot {
		if !fn(k) {
			return
		}
	}
}
