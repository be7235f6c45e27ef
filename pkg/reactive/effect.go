package reactive

import (
	"sync"
	"sync/atomic"
)

// Effect is a side effect that re-runs whenever a signal or memo it read
// during its last run changes. It runs synchronously on the goroutine that
// made the change, or once at the end of the enclosing Batch.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*cellBase
	sourcesMu sync.Mutex

	// runMu is held while the effect body runs. A MarkDirty that cannot take
	// it leaves pending set and the holder runs the body again.
	runMu   sync.Mutex
	pending atomic.Bool

	disposed atomic.Bool
}

// NewEffect creates an effect and runs it immediately.
func NewEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	e.pending.Store(true)
	e.drain()
	return e
}

// Watch calls fn with the value of read now and after every change, skipping
// changes that leave the value equal. The returned function stops watching.
func Watch[T any](read func() T, fn func(T)) (stop func()) {
	var (
		last    T
		hasLast bool
	)
	e := NewEffect(func() Cleanup {
		v := read()
		if hasLast && defaultEquals(last, v) {
			return nil
		}
		last, hasLast = v, true
		Untracked(func() { fn(v) })
		return nil
	})
	return e.Dispose
}

// MarkDirty re-runs the effect. Implements Listener.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	e.pending.Store(true)
	e.drain()
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

func (e *Effect) drain() {
	for e.pending.Load() {
		if !e.runMu.TryLock() {
			return
		}
		for e.pending.Swap(false) {
			if e.disposed.Load() {
				break
			}
			e.runOnce()
		}
		if e.disposed.Load() {
			e.release()
			e.runMu.Unlock()
			return
		}
		e.runMu.Unlock()
	}
}

func (e *Effect) runOnce() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.detach()

	old := setCurrentListener(e)
	defer setCurrentListener(old)
	e.cleanup = e.fn()
}

func (e *Effect) addSource(source *cellBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()
	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

func (e *Effect) detach() {
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()
}

// release runs the final cleanup. Callers hold runMu.
func (e *Effect) release() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.detach()
}

// Dispose runs the last cleanup and unsubscribes from every source.
// Disposing from inside the effect body takes effect when the body returns.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	if e.runMu.TryLock() {
		e.release()
		e.runMu.Unlock()
	}
}

var _ sourceTracker = (*Effect)(nil)
