package pipe

import "context"

// ZipSource selects parallel composition for producers: combining two
// ZipSources pulls one value from each per step instead of running one to
// exhaustion before the other.
type ZipSource[O any] struct {
	src *Source[O]
}

// NewZipSource wraps a producer for parallel composition.
func NewZipSource[O any](src *Source[O]) ZipSource[O] {
	return ZipSource[O]{src: src}
}

// Source unwraps the underlying producer.
func (z ZipSource[O]) Source() *Source[O] {
	return z.src
}

// RepeatSource yields v forever. It is the neutral producer for zip-width:
// it is never the side that ends a zip.
func RepeatSource[O any](v O) ZipSource[O] {
	var loop func() *Source[O]
	loop = func() *Source[O] {
		return &Source[O]{st: stateEmit, out: v, next: loop}
	}
	return ZipSource[O]{src: loop()}
}

// ZipSources combines two producers in lockstep: one value is pulled from
// each per step and combined with f. The combined producer terminates the
// instant either side terminates, releasing the other side's in-flight
// output.
func ZipSources[A, B, C any](a ZipSource[A], b ZipSource[B], f func(A, B) C) ZipSource[C] {
	return ZipSource[C]{src: zipWith(f, a.src, b.src)}
}

func zipWith[A, B, C any](f func(A, B) C, x *Source[A], y *Source[B]) *Source[C] {
	for {
		switch {
		case x.st == stateEffect:
			act, ry := x.effect, y
			return &Source[C]{st: stateEffect, effect: func(ctx context.Context) (*Source[C], error) {
				q, err := act(ctx)
				if err != nil {
					_ = ry.fin.Run(ctx)
					return nil, err
				}
				return zipWith(f, q, ry), nil
			}}
		case y.st == stateEffect:
			act, rx := y.effect, x
			return &Source[C]{st: stateEffect, effect: func(ctx context.Context) (*Source[C], error) {
				q, err := act(ctx)
				if err != nil {
					_ = rx.fin.Run(ctx)
					return nil, err
				}
				return zipWith(f, rx, q), nil
			}}
		case x.st == statePushBack:
			x = x.next()
		case y.st == statePushBack:
			y = y.next()
		case x.st == stateAwait:
			x = x.onDone(None{})
		case y.st == stateAwait:
			y = y.onDone(None{})
		case x.st == stateDone && y.st == stateDone:
			return &Source[C]{st: stateDone}
		case x.st == stateDone: // y is emitting: release its in-flight output
			fy := y.fin
			return &Source[C]{st: stateEffect, effect: func(ctx context.Context) (*Source[C], error) {
				if err := fy.Run(ctx); err != nil {
					return nil, err
				}
				return &Source[C]{st: stateDone}, nil
			}}
		case y.st == stateDone:
			fx := x.fin
			return &Source[C]{st: stateEffect, effect: func(ctx context.Context) (*Source[C], error) {
				if err := fx.Run(ctx); err != nil {
					return nil, err
				}
				return &Source[C]{st: stateDone}, nil
			}}
		default: // both emitting
			v := f(x.out, y.out)
			xn, yn := x.next, y.next
			return &Source[C]{
				st:  stateEmit,
				out: v,
				fin: combineFinalizers(x.fin, y.fin),
				next: func() *Source[C] {
					return zipWith(f, xn(), yn())
				},
			}
		}
	}
}

// ZipSink selects parallel composition for consumers: combining two
// ZipSinks broadcasts each input value to both until both finish, then
// combines their results. Default sequential composition would instead run
// one consumer to completion before the next sees any input.
type ZipSink[I, R any] struct {
	snk *Sink[I, R]
}

// NewZipSink wraps a consumer for parallel composition.
func NewZipSink[I, R any](snk *Sink[I, R]) ZipSink[I, R] {
	return ZipSink[I, R]{snk: snk}
}

// Sink unwraps the underlying consumer.
func (z ZipSink[I, R]) Sink() *Sink[I, R] {
	return z.snk
}

// PureSink ignores all input and completes immediately with r. It is the
// neutral consumer for parallel composition.
func PureSink[I, R any](r R) ZipSink[I, R] {
	return ZipSink[I, R]{snk: &Sink[I, R]{st: stateDone, result: r}}
}

// ZipSinks broadcasts each input value to both consumers, still
// single-threaded: one step of each per value. Once both reach their
// terminal state the two results are combined with f.
func ZipSinks[I, A, B, C any](a ZipSink[I, A], b ZipSink[I, B], f func(A, B) C) ZipSink[I, C] {
	return ZipSink[I, C]{snk: zipSinkWith(f, injectLeftovers(a.snk), injectLeftovers(b.snk))}
}

func zipSinkWith[I, A, B, C any](f func(A, B) C, x *Sink[I, A], y *Sink[I, B]) *Sink[I, C] {
	for {
		switch {
		case x.st == stateEffect:
			act, ry := x.effect, y
			return &Sink[I, C]{st: stateEffect, effect: func(ctx context.Context) (*Sink[I, C], error) {
				q, err := act(ctx)
				if err != nil {
					return nil, err
				}
				return zipSinkWith(f, q, ry), nil
			}}
		case y.st == stateEffect:
			act, rx := y.effect, x
			return &Sink[I, C]{st: stateEffect, effect: func(ctx context.Context) (*Sink[I, C], error) {
				q, err := act(ctx)
				if err != nil {
					return nil, err
				}
				return zipSinkWith(f, rx, q), nil
			}}
		case x.st == statePushBack:
			// leftovers were injected; any straggler has no broadcast meaning
			x = x.next()
		case y.st == statePushBack:
			y = y.next()
		case x.st == stateEmit:
			x = x.next()
		case y.st == stateEmit:
			y = y.next()
		case x.st == stateDone && y.st == stateDone:
			return &Sink[I, C]{st: stateDone, result: f(x.result, y.result)}
		default: // at least one side is awaiting
			sx, sy := x, y
			return &Sink[I, C]{st: stateAwait,
				onValue: func(i I) *Sink[I, C] {
					return zipSinkWith(f, feedSink(sx, i), feedSink(sy, i))
				},
				onDone: func(u None) *Sink[I, C] {
					return zipSinkWith(f, finishSink(sx, u), finishSink(sy, u))
				},
			}
		}
	}
}

// feedSink offers a broadcast value to a consumer; one that already
// finished ignores further input.
func feedSink[I, R any](p *Sink[I, R], v I) *Sink[I, R] {
	if p.st == stateAwait {
		return p.onValue(v)
	}
	return p
}

func finishSink[I, R any](p *Sink[I, R], u None) *Sink[I, R] {
	if p.st == stateAwait {
		return p.onDone(u)
	}
	return p
}
