package reactive

import "sync/atomic"

// Listener is anything that can be notified when a dependency changes.
// Memos invalidate their cached value; effects re-run.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier used for deduplication.
	ID() uint64
}

// Cleanup is returned by effects and runs before the next run and on dispose.
type Cleanup func()

// sourceTracker is implemented by listeners that remember what they read so
// they can unsubscribe before recomputing.
type sourceTracker interface {
	Listener
	addSource(source *cellBase)
}

var idCounter uint64

// nextID returns the next unique ID for a reactive primitive.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
