// Package reactive provides the reactive cells that route titles are built on.
//
// Dependencies are tracked automatically at runtime: reading a Signal or Memo
// while a Memo or Effect is computing subscribes that Memo or Effect to it.
//
// # Core Types
//
// Signal[T] is a settable value container:
//
//	name := reactive.NewSignal("Ann")
//	name.Get()      // read (subscribes the current listener)
//	name.Set("Bob") // write (notifies subscribers)
//
// Memo[T] is a lazily cached derived value:
//
//	title := reactive.NewMemo(func() string { return "User " + name.Get() })
//	title.Get() // recomputes only after a dependency changed
//
// Effect runs a side effect now and again whenever what it read changes:
//
//	e := reactive.NewEffect(func() reactive.Cleanup {
//	    log.Println(title.Get())
//	    return nil
//	})
//	defer e.Dispose()
//
// # Batching
//
// Batch defers notifications until the outermost batch returns, so an Effect
// that depends on several signals updated together runs once.
//
// # Thread Safety
//
// All primitives are safe for concurrent use. Tracking state is kept per
// goroutine, so a Memo computed on one goroutine never records reads made on
// another.
package reactive
