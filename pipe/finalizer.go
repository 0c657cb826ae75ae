package pipe

import "context"

// Finalizer is a run-once handle around a release action. Exactly one
// finalizer per pipe is live at a time; a later emit or terminal state
// supersedes the previous one, which is then dropped without running.
//
// All methods are nil-safe: a nil Finalizer is an already-consumed handle.
// Finalizers are stepped by a single driver at a time, so no locking is
// needed.
type Finalizer struct {
	fn   func(context.Context) error
	done bool
}

// NewFinalizer wraps a release action in a run-once handle.
func NewFinalizer(fn func(context.Context) error) *Finalizer {
	return &Finalizer{fn: fn}
}

// Run executes the release action. Only the first call has any effect;
// later calls are no-ops returning nil.
func (f *Finalizer) Run(ctx context.Context) error {
	if f == nil || f.done {
		return nil
	}
	f.done = true
	if f.fn == nil {
		return nil
	}
	return f.fn(ctx)
}

// Drop consumes the handle without running the release action.
func (f *Finalizer) Drop() {
	if f != nil {
		f.done = true
	}
}

// combineFinalizers returns a handle that runs a and then b. Either side
// may be nil or already consumed; run-once semantics of the parts are
// preserved.
func combineFinalizers(a, b *Finalizer) *Finalizer {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return NewFinalizer(func(ctx context.Context) error {
		err := a.Run(ctx)
		if err2 := b.Run(ctx); err == nil {
			err = err2
		}
		return err
	})
}
