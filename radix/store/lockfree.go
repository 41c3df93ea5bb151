package store

import (
	"sync"
	"sync/atomic"
)

// lockFreeFactory builds containers backed by sync.Map, giving per-key
// linearizability without a single container-wide lock (§5 "Lock-free
// flavor"). Grounded on the cache in other_examples/rickcollette-kayveedb,
// the only concurrent-map usage pattern in the retrieval pack — no
// third-party concurrent-map library appears anywhere in it, so this
// stays on sync.Map rather than inventing an unlisted dependency (see
// DESIGN.md).
type lockFreeFactory[K comparable] struct{}

// NewLockFree returns a Factory whose containers use sync.Map for
// fine-grained concurrency, at the cost of more memory per container
// than the guarded flavor.
func NewLockFree[K comparable]() Factory[K] {
	return lockFreeFactory[K]{}
}

func (lockFreeFactory[K]) NewEdgeMap() EdgeMap[K] { return &lockFreeEdgeMap[K]{} }
func (lockFreeFactory[K]) NewKeyBag() KeyBag[K]   { return &lockFreeKeyBag[K]{} }

type lockFreeEdgeMap[K comparable] struct {
	m   sync.Map // string(edge) -> *Node[K]
	len int64
}

func (m *lockFreeEdgeMap[K]) Len() int {
	return int(atomic.LoadInt64(&m.len))
}

func (m *lockFreeEdgeMap[K]) Get(edge []byte) (*Node[K], bool) {
	v, ok := m.m.Load(string(edge))
	if !ok {
		return nil, false
	}
	return v.(*Node[K]), true
}

func (m *lockFreeEdgeMap[K]) Set(edge []byte, n *Node[K]) {
	key := string(edge)
	if _, loaded := m.m.Swap(key, n); !loaded {
		atomic.AddInt64(&m.len, 1)
	}
}

func (m *lockFreeEdgeMap[K]) Delete(edge []byte) {
	key := string(edge)
	if _, loaded := m.m.LoadAndDelete(key); loaded {
		atomic.AddInt64(&m.len, -1)
	}
}

// Range walks a weakly-consistent snapshot: sync.Map.Range does not
// freeze the map, so concurrent Set/Delete calls during iteration may or
// may not be observed, but every value observed is a valid *Node[K]
// (§5 "iteration sees a weakly-consistent snapshot").
func (m *lockFreeEdgeMap[K]) Range(fn func(edge []byte, n *Node[K]) bool) {
	m.m.Range(func(key, value any) bool {
		return fn([]byte(key.(string)), value.(*Node[K]))
	})
}

type lockFreeKeyBag[K comparable] struct {
	m   sync.Map // K -> struct{}
	len int64
}

func (b *lockFreeKeyBag[K]) Len() int {
	return int(atomic.LoadInt64(&b.len))
}

func (b *lockFreeKeyBag[K]) Add(k K) {
	if _, loaded := b.m.Swap(k, struct{}{}); !loaded {
		atomic.AddInt64(&b.len, 1)
	}
}

func (b *lockFreeKeyBag[K]) Remove(k K) bool {
	if _, loaded := b.m.LoadAndDelete(k); loaded {
		atomic.AddInt64(&b.len, -1)
		return true
	}
	return false
}

func (b *lockFreeKeyBag[K]) Range(fn func(k K) bool) {
	b.m.Range(func(key, _ any) bool {
		return fn(key.(K))
	})
}
