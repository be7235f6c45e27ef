package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state of one goroutine.
type trackingContext struct {
	// listener is what currently records reads; nil means untracked.
	listener Listener

	// depth counts nested Batch calls.
	depth int

	// pending accumulates listeners to notify when the batch closes.
	pending []Listener
}

var trackingContexts sync.Map

// goroutineID parses the current goroutine's ID from its stack header
// ("goroutine <id> [...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// tracking returns the calling goroutine's state, creating it if needed.
func tracking() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// lookup returns the calling goroutine's state without creating it.
func lookup(gid uint64) *trackingContext {
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	return nil
}

// releaseIfIdle drops the state of gid once nothing is tracking and no
// batch is open. Goroutine IDs are never reused, so idle entries would
// otherwise accumulate for every goroutine that ever read a cell.
func releaseIfIdle(gid uint64, ctx *trackingContext) {
	if ctx.listener == nil && ctx.depth == 0 && len(ctx.pending) == 0 {
		trackingContexts.CompareAndDelete(gid, ctx)
	}
}

func currentListener() Listener {
	if ctx := lookup(goroutineID()); ctx != nil {
		return ctx.listener
	}
	return nil
}

// setCurrentListener returns the previous listener so it can be restored.
func setCurrentListener(l Listener) Listener {
	gid := goroutineID()
	ctx := lookup(gid)
	if ctx == nil {
		if l == nil {
			return nil
		}
		ctx = &trackingContext{}
		trackingContexts.Store(gid, ctx)
	}
	old := ctx.listener
	ctx.listener = l
	releaseIfIdle(gid, ctx)
	return old
}

func batchDepth() int {
	if ctx := lookup(goroutineID()); ctx != nil {
		return ctx.depth
	}
	return 0
}

func queuePending(l Listener) {
	ctx := tracking()
	ctx.pending = append(ctx.pending, l)
}

// Release drops the tracking state of the calling goroutine. State is
// already dropped whenever a goroutine stops tracking outside a batch;
// Release also covers a goroutine that exits mid-computation.
func Release() {
	trackingContexts.Delete(goroutineID())
}

// TrackedGoroutines reports how many goroutines currently hold tracking
// state.
func TrackedGoroutines() int {
	n := 0
	trackingContexts.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
