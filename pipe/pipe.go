package pipe

import "context"

// None is the uninhabited-by-convention placeholder for type slots a pipe
// shape does not use: a source's input, a sink's output, and the terminal
// result of intermediate stages.
type None struct{}

// state identifies which of the five suspended-computation states a Pipe
// value is in.
type state int

const (
	stateDone     state = iota // terminal, carries the final result
	stateEffect                // an ambient effect must run before the next state is known
	statePushBack              // an input value is handed back upstream before fresh input
	stateAwait                 // suspended until upstream supplies a value or signals completion
	stateEmit                  // one output value is ready, with its finalizer
)

// Pipe is a suspended streaming computation. I is the input (and push-back)
// element type, O the output element type, U the upstream terminal result,
// and R the pipe's own terminal result.
//
// A Pipe value is in exactly one of five states at any time. Values are
// created by the constructors below and consumed by the fusion engine and
// the connect drivers; a Pipe value must not be reused after it has been
// stepped past. Continuations are thunks so self-recursive pipes can be
// described without divergence.
type Pipe[I, O, U, R any] struct {
	st state

	// stateDone
	result R

	// stateEffect
	effect func(context.Context) (*Pipe[I, O, U, R], error)

	// statePushBack
	lo I

	// statePushBack, stateEmit
	next func() *Pipe[I, O, U, R]

	// stateAwait
	onValue func(I) *Pipe[I, O, U, R]
	onDone  func(U) *Pipe[I, O, U, R]

	// stateEmit
	out O
	fin *Finalizer
}

// Source produces a stream of O values. It consumes no input.
type Source[O any] = Pipe[None, O, None, None]

// Sink consumes a stream of I values and finishes with a result R.
type Sink[I, R any] = Pipe[I, None, None, R]

// Conduit transforms a stream of I values into a stream of O values.
type Conduit[I, O any] = Pipe[I, O, None, None]

// Done returns a terminal pipe carrying the final result.
func Done[I, O, U, R any](r R) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: stateDone, result: r}
}

// Do returns a pipe that must run the given ambient effect before its next
// state is known. The effect receives the driving context and either
// produces the continuation pipe or raises an error on the pipeline's
// failure channel.
func Do[I, O, U, R any](effect func(context.Context) (*Pipe[I, O, U, R], error)) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: stateEffect, effect: effect}
}

// Fail returns a pipe that aborts the pipeline with the given error. Every
// live finalizer along the chain runs before the error surfaces to the
// driver.
func Fail[I, O, U, R any](err error) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: stateEffect, effect: func(context.Context) (*Pipe[I, O, U, R], error) {
		return nil, err
	}}
}

// Await suspends until upstream supplies a value or signals completion.
// End-of-stream is ordinary data delivered to onDone, never a failure.
func Await[I, O, U, R any](onValue func(I) *Pipe[I, O, U, R], onDone func(U) *Pipe[I, O, U, R]) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: stateAwait, onValue: onValue, onDone: onDone}
}

// Yield produces v downstream. If nothing downstream ever requests another
// value, the continuation is never entered; use YieldFinal when a cleanup
// hook is needed on early termination.
func Yield[I, O, U, R any](v O, next func() *Pipe[I, O, U, R]) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: stateEmit, out: v, next: next}
}

// YieldFinal produces v downstream and registers fin to run if downstream
// never continues past v. The finalizer is superseded, and dropped without
// running, once a later emit or terminal state takes over.
func YieldFinal[I, O, U, R any](v O, fin func(context.Context) error, next func() *Pipe[I, O, U, R]) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: stateEmit, out: v, fin: NewFinalizer(fin), next: next}
}

// PutBack declares v as not actually consumed. The next await on this
// pipe's upstream side receives v before any new value. Push-backs compose
// as a stack: the most recently pushed value is replayed first.
func PutBack[I, O, U, R any](v I, next func() *Pipe[I, O, U, R]) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: statePushBack, lo: v, next: next}
}

// Then sequences k after p: once p reaches its terminal state, its result
// is handed to k and the returned pipe continues on the same stream.
func Then[I, O, U, R1, R2 any](p *Pipe[I, O, U, R1], k func(R1) *Pipe[I, O, U, R2]) *Pipe[I, O, U, R2] {
	switch p.st {
	case stateDone:
		return k(p.result)
	case stateEffect:
		act := p.effect
		return &Pipe[I, O, U, R2]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R2], error) {
			q, err := act(ctx)
			if err != nil {
				return nil, err
			}
			return Then(q, k), nil
		}}
	case statePushBack:
		next := p.next
		return &Pipe[I, O, U, R2]{st: statePushBack, lo: p.lo, next: func() *Pipe[I, O, U, R2] {
			return Then(next(), k)
		}}
	case stateAwait:
		onValue, onDone := p.onValue, p.onDone
		return &Pipe[I, O, U, R2]{st: stateAwait,
			onValue: func(i I) *Pipe[I, O, U, R2] { return Then(onValue(i), k) },
			onDone:  func(u U) *Pipe[I, O, U, R2] { return Then(onDone(u), k) },
		}
	default: // stateEmit
		next := p.next
		return &Pipe[I, O, U, R2]{st: stateEmit, out: p.out, fin: p.fin, next: func() *Pipe[I, O, U, R2] {
			return Then(next(), k)
		}}
	}
}

// injectLeftovers replays a pipe's own push-backs into its next awaits, so
// the resulting pipe never pushes back. Used by the drivers and combinators
// that cannot give push-backs a meaning of their own.
func injectLeftovers[I, O, U, R any](p *Pipe[I, O, U, R]) *Pipe[I, O, U, R] {
	return inject(nil, p)
}

func inject[I, O, U, R any](stack []I, p *Pipe[I, O, U, R]) *Pipe[I, O, U, R] {
	for {
		switch p.st {
		case statePushBack:
			stack = append(stack, p.lo)
			p = p.next()
		case stateAwait:
			if n := len(stack); n > 0 {
				v := stack[n-1]
				stack = stack[:n-1]
				p = p.onValue(v)
				continue
			}
			onValue, onDone := p.onValue, p.onDone
			return &Pipe[I, O, U, R]{st: stateAwait,
				onValue: func(i I) *Pipe[I, O, U, R] { return inject(nil, onValue(i)) },
				onDone:  func(u U) *Pipe[I, O, U, R] { return inject(nil, onDone(u)) },
			}
		case stateDone:
			return p
		case stateEffect:
			act := p.effect
			saved := append([]I(nil), stack...)
			return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
				q, err := act(ctx)
				if err != nil {
					return nil, err
				}
				return inject(saved, q), nil
			}}
		default: // stateEmit
			next := p.next
			saved := append([]I(nil), stack...)
			return &Pipe[I, O, U, R]{st: stateEmit, out: p.out, fin: p.fin, next: func() *Pipe[I, O, U, R] {
				return inject(saved, next())
			}}
		}
	}
}
