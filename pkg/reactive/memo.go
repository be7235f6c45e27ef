package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that tracks its dependencies.
// When any dependency changes the memo is invalidated and recomputes on the
// next read. Memos are lazy: nothing runs until Get or Peek.
//
// A Memo can itself be read by other memos and effects, so derived values
// chain.
type Memo[T any] struct {
	base cellBase

	compute func() T

	value   T
	valueMu sync.RWMutex

	// valid is false until the first computation and after invalidation.
	valid atomic.Bool

	sources   []*cellBase
	sourcesMu sync.Mutex

	// computeMu serializes recomputation across goroutines.
	computeMu sync.Mutex

	// computingOn holds the goroutine currently recomputing, so a memo that
	// reads itself returns instead of deadlocking.
	computingOn atomic.Uint64
}

// NewMemo creates a memo. The computation runs lazily on first read.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    cellBase{id: nextID()},
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if necessary, and subscribes the
// current listener.
func (m *Memo[T]) Get() T {
	m.base.track()
	return m.Peek()
}

// Peek returns the memo's value without subscribing.
// It still recomputes an invalid value.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty invalidates the memo and propagates to subscribers.
// Implements Listener.
func (m *Memo[T]) MarkDirty() {
	if m.valid.CompareAndSwap(true, false) {
		m.base.notify()
	}
}

// Invalidate forces recomputation on the next read, notifying subscribers.
func (m *Memo[T]) Invalidate() {
	m.MarkDirty()
}

// ID implements Listener.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

func (m *Memo[T]) addSource(source *cellBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()
	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

func (m *Memo[T]) recompute() {
	gid := goroutineID()
	if m.computingOn.Load() == gid {
		// Circular read of this memo from its own computation.
		return
	}

	m.computeMu.Lock()
	defer m.computeMu.Unlock()
	if m.valid.Load() {
		return
	}
	m.computingOn.Store(gid)
	defer m.computingOn.Store(0)

	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	value := m.run()

	m.valueMu.Lock()
	m.value = value
	m.valueMu.Unlock()
	m.valid.Store(true)
}

// run evaluates compute with m as the listener, restoring the previous
// listener even if compute panics.
func (m *Memo[T]) run() T {
	old := setCurrentListener(m)
	defer setCurrentListener(old)
	return m.compute()
}

var _ sourceTracker = (*Memo[int])(nil)
