package reactive

// Batch groups signal updates so that every affected listener is notified
// once, after fn returns. Batches nest; only the outermost one flushes.
func Batch(fn func()) {
	gid := goroutineID()
	ctx := tracking()
	ctx.depth++
	defer func() {
		ctx.depth--
		if ctx.depth == 0 {
			flushPending(ctx)
			releaseIfIdle(gid, ctx)
		}
	}()
	fn()
}

func flushPending(ctx *trackingContext) {
	updates := ctx.pending
	ctx.pending = nil
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	for _, l := range updates {
		id := l.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		l.MarkDirty()
	}
}

// Untracked runs fn without recording reads as dependencies.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
