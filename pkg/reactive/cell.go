package reactive

import (
	"reflect"
	"sync"
)

// cellBase holds the subscriber list shared by Signal and Memo.
type cellBase struct {
	id uint64

	subs  []Listener
	subMu sync.RWMutex
}

// subscribe adds l, deduplicating by listener ID.
func (c *cellBase) subscribe(l Listener) {
	if l == nil {
		return
	}
	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for _, existing := range c.subs {
		if existing.ID() == lid {
			return
		}
	}
	c.subs = append(c.subs, l)
}

func (c *cellBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}
	c.subMu.Lock()
	defer c.subMu.Unlock()

	lid := l.ID()
	for i, existing := range c.subs {
		if existing.ID() == lid {
			c.subs[i] = c.subs[len(c.subs)-1]
			c.subs = c.subs[:len(c.subs)-1]
			return
		}
	}
}

// subscriberCount is used by tests to check that listeners detach.
func (c *cellBase) subscriberCount() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subs)
}

// track subscribes the current goroutine's listener, if any, to c.
func (c *cellBase) track() {
	listener := currentListener()
	if listener == nil {
		return
	}
	c.subscribe(listener)
	if st, ok := listener.(sourceTracker); ok {
		st.addSource(c)
	}
}

// notify marks all subscribers dirty, or queues them while a batch is open.
// Subscribers are copied first so no lock is held during notification.
func (c *cellBase) notify() {
	c.subMu.RLock()
	subs := make([]Listener, len(c.subs))
	copy(subs, c.subs)
	c.subMu.RUnlock()

	if batchDepth() > 0 {
		for _, sub := range subs {
			queuePending(sub)
		}
		return
	}
	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// defaultEquals compares comparable values with == (pointer identity for
// pointers) and falls back to reflect.DeepEqual for slices, maps and funcs.
func defaultEquals[T any](a, b T) bool {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	ta := reflect.TypeOf(va)
	if ta != reflect.TypeOf(vb) {
		return false
	}
	if ta.Kind() == reflect.Func {
		return false
	}
	if ta.Comparable() && ta.Kind() != reflect.Interface && ta.Kind() != reflect.Struct && ta.Kind() != reflect.Array {
		return va == vb
	}
	return reflect.DeepEqual(a, b)
}
