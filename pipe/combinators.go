package pipe

import "context"

// FromSlice creates a source that produces the elements of the slice, in
// order.
func FromSlice[O any](items []O) *Source[O] {
	var from func(int) *Source[O]
	from = func(idx int) *Source[O] {
		if idx >= len(items) {
			return &Source[O]{st: stateDone}
		}
		return &Source[O]{st: stateEmit, out: items[idx], next: func() *Source[O] {
			return from(idx + 1)
		}}
	}
	return from(0)
}

// SinkSlice collects every input value into a slice.
func SinkSlice[I any]() *Sink[I, []I] {
	var loop func(acc []I) *Sink[I, []I]
	loop = func(acc []I) *Sink[I, []I] {
		return Await(
			func(v I) *Sink[I, []I] { return loop(append(acc, v)) },
			func(None) *Sink[I, []I] { return Done[I, None, None](acc) },
		)
	}
	return loop(nil)
}

// SinkNull consumes and discards every input value.
func SinkNull[I any]() *Sink[I, None] {
	var loop func() *Sink[I, None]
	loop = func() *Sink[I, None] {
		return Await(
			func(I) *Sink[I, None] { return loop() },
			func(None) *Sink[I, None] { return Done[I, None, None](None{}) },
		)
	}
	return loop()
}

// Map transforms each value using f.
func Map[A, B any](f func(A) B) *Conduit[A, B] {
	var loop func() *Conduit[A, B]
	loop = func() *Conduit[A, B] {
		return Await(
			func(v A) *Conduit[A, B] { return Yield(f(v), loop) },
			func(None) *Conduit[A, B] { return Done[A, B, None](None{}) },
		)
	}
	return loop()
}

// Filter keeps only values that satisfy the predicate.
func Filter[A any](pred func(A) bool) *Conduit[A, A] {
	var loop func() *Conduit[A, A]
	loop = func() *Conduit[A, A] {
		return Await(
			func(v A) *Conduit[A, A] {
				if pred(v) {
					return Yield(v, loop)
				}
				return loop()
			},
			func(None) *Conduit[A, A] { return Done[A, A, None](None{}) },
		)
	}
	return loop()
}

// Tap calls f as a side-effect for each value, then passes the value
// through unchanged. Use for logging, metrics, or mid-pipeline counting.
func Tap[A any](f func(context.Context, A) error) *Conduit[A, A] {
	var loop func() *Conduit[A, A]
	loop = func() *Conduit[A, A] {
		return Await(
			func(v A) *Conduit[A, A] {
				return Do(func(ctx context.Context) (*Conduit[A, A], error) {
					if err := f(ctx, v); err != nil {
						return nil, err
					}
					return Yield(v, loop), nil
				})
			},
			func(None) *Conduit[A, A] { return Done[A, A, None](None{}) },
		)
	}
	return loop()
}

// Fold accumulates all input values into a single result.
func Fold[I, R any](f func(R, I) R, initial R) *Sink[I, R] {
	var loop func(acc R) *Sink[I, R]
	loop = func(acc R) *Sink[I, R] {
		return Await(
			func(v I) *Sink[I, R] { return loop(f(acc, v)) },
			func(None) *Sink[I, R] { return Done[I, None, None](acc) },
		)
	}
	return loop(initial)
}

// Peek returns the next input value without consuming it, or nil at
// end-of-stream. The value is pushed back so the next await sees it again.
func Peek[I any]() *Sink[I, *I] {
	return Await(
		func(v I) *Sink[I, *I] {
			return PutBack(v, func() *Sink[I, *I] {
				return Done[I, None, None](&v)
			})
		},
		func(None) *Sink[I, *I] { return Done[I, None, None, *I](nil) },
	)
}
