package pipe

import "context"

// fuseWith combines an upstream and a downstream pipe sharing the value
// type M into one pipe, stepping upstream only as far as downstream's
// demand requires. fin is the upstream finalizer currently live at this
// point of the pull loop.
//
// The transition table is iterative rather than mutually recursive, so
// long pull loops do not grow the stack; suspension happens only through
// the lazy continuations of the returned pipe.
//
// Downstream push-backs are dropped, not forwarded upstream. Upstream
// push-backs propagate outward as push-backs of the fused pipe.
func fuseWith[I, M, O, U, V, R any](fin *Finalizer, left *Pipe[I, M, U, V], right *Pipe[M, O, V, R]) *Pipe[I, O, U, R] {
outer:
	for {
		switch right.st {
		case stateDone:
			// Downstream finished: release upstream's in-flight output and
			// never step upstream again.
			r := right.result
			if fin == nil {
				return &Pipe[I, O, U, R]{st: stateDone, result: r}
			}
			f := fin
			return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
				if err := f.Run(ctx); err != nil {
					return nil, err
				}
				return &Pipe[I, O, U, R]{st: stateDone, result: r}, nil
			}}

		case stateEffect:
			act := right.effect
			l, f := left, fin
			return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
				q, err := act(ctx)
				if err != nil {
					// Unwind: the in-flight upstream output is never consumed.
					_ = f.Run(ctx)
					return nil, err
				}
				return fuseWith(f, l, q), nil
			}}

		case statePushBack:
			// Documented data loss: push-backs from the downstream side of a
			// fusion are dropped.
			right = right.next()

		case stateEmit:
			v, next := right.out, right.next
			l, f := left, fin
			return &Pipe[I, O, U, R]{
				st:  stateEmit,
				out: v,
				fin: combineFinalizers(right.fin, fin),
				next: func() *Pipe[I, O, U, R] {
					return fuseWith(f, l, next())
				},
			}

		case stateAwait:
			onValue, onDone := right.onValue, right.onDone
			for {
				switch left.st {
				case stateEmit:
					v, lfin, lnext := left.out, left.fin, left.next
					left = lnext()
					fin = lfin // supersedes the previous finalizer, which is dropped unrun
					right = onValue(v)
					continue outer

				case stateDone:
					u := left.result
					fin = nil // terminal state supersedes the pending finalizer
					right = onDone(u)
					continue outer

				case stateEffect:
					act := left.effect
					f, r := fin, right
					return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
						q, err := act(ctx)
						if err != nil {
							_ = f.Run(ctx)
							return nil, err
						}
						return fuseWith(f, q, r), nil
					}}

				case statePushBack:
					v, lnext := left.lo, left.next
					f, r := fin, right
					return &Pipe[I, O, U, R]{st: statePushBack, lo: v, next: func() *Pipe[I, O, U, R] {
						return fuseWith(f, lnext(), r)
					}}

				default: // stateAwait
					lv, ld := left.onValue, left.onDone
					f, r := fin, right
					return &Pipe[I, O, U, R]{st: stateAwait,
						onValue: func(i I) *Pipe[I, O, U, R] { return fuseWith(f, lv(i), r) },
						onDone:  func(u U) *Pipe[I, O, U, R] { return fuseWith(f, ld(u), r) },
					}
				}
			}
		}
	}
}

// Through fuses a source with a conduit, producing a new source.
func Through[A, B any](src *Source[A], c *Conduit[A, B]) *Source[B] {
	return fuseWith(nil, src, c)
}

// Into fuses a conduit with a sink, producing a new sink.
func Into[A, B, R any](c *Conduit[A, B], snk *Sink[B, R]) *Sink[A, R] {
	return fuseWith(nil, c, snk)
}

// Fuse combines two conduits into one.
func Fuse[A, B, C any](a *Conduit[A, B], b *Conduit[B, C]) *Conduit[A, C] {
	return fuseWith(nil, a, b)
}
