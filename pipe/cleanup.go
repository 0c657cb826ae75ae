package pipe

import "context"

// AddCleanup wraps a pipe so that cleanup runs exactly once on every exit
// path. The boolean argument distinguishes a consumer that drained the pipe
// to completion (true) from one that stopped early (false).
func AddCleanup[I, O, U, R any](p *Pipe[I, O, U, R], cleanup func(context.Context, bool) error) *Pipe[I, O, U, R] {
	switch p.st {
	case stateDone:
		r := p.result
		return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
			if err := cleanup(ctx, true); err != nil {
				return nil, err
			}
			return &Pipe[I, O, U, R]{st: stateDone, result: r}, nil
		}}
	case stateEffect:
		act := p.effect
		return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
			q, err := act(ctx)
			if err != nil {
				return nil, err
			}
			return AddCleanup(q, cleanup), nil
		}}
	case statePushBack:
		next := p.next
		return &Pipe[I, O, U, R]{st: statePushBack, lo: p.lo, next: func() *Pipe[I, O, U, R] {
			return AddCleanup(next(), cleanup)
		}}
	case stateAwait:
		onValue, onDone := p.onValue, p.onDone
		return &Pipe[I, O, U, R]{st: stateAwait,
			onValue: func(i I) *Pipe[I, O, U, R] { return AddCleanup(onValue(i), cleanup) },
			onDone:  func(u U) *Pipe[I, O, U, R] { return AddCleanup(onDone(u), cleanup) },
		}
	default: // stateEmit
		next := p.next
		early := NewFinalizer(func(ctx context.Context) error { return cleanup(ctx, false) })
		return &Pipe[I, O, U, R]{
			st:  stateEmit,
			out: p.out,
			fin: combineFinalizers(p.fin, early),
			next: func() *Pipe[I, O, U, R] {
				return AddCleanup(next(), cleanup)
			},
		}
	}
}

// Bracket acquires a resource, feeds it to body, and guarantees release
// runs exactly once no matter how the body exits: normal completion, early
// termination from downstream, or an error raised anywhere in the pipeline.
func Bracket[T, I, O, U, R any](
	acquire func(context.Context) (T, error),
	release func(context.Context, T) error,
	body func(T) *Pipe[I, O, U, R],
) *Pipe[I, O, U, R] {
	return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
		res, err := acquire(ctx)
		if err != nil {
			return nil, err
		}
		rel := NewFinalizer(func(ctx context.Context) error { return release(ctx, res) })
		return protect(rel, body(res)), nil
	}}
}

// protect threads a run-once release handle through every state of p so
// that each exit path, including the error path of an effect, consumes it.
func protect[I, O, U, R any](rel *Finalizer, p *Pipe[I, O, U, R]) *Pipe[I, O, U, R] {
	switch p.st {
	case stateDone:
		r := p.result
		return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
			if err := rel.Run(ctx); err != nil {
				return nil, err
			}
			return &Pipe[I, O, U, R]{st: stateDone, result: r}, nil
		}}
	case stateEffect:
		act := p.effect
		return &Pipe[I, O, U, R]{st: stateEffect, effect: func(ctx context.Context) (*Pipe[I, O, U, R], error) {
			q, err := act(ctx)
			if err != nil {
				_ = rel.Run(ctx)
				return nil, err
			}
			return protect(rel, q), nil
		}}
	case statePushBack:
		next := p.next
		return &Pipe[I, O, U, R]{st: statePushBack, lo: p.lo, next: func() *Pipe[I, O, U, R] {
			return protect(rel, next())
		}}
	case stateAwait:
		onValue, onDone := p.onValue, p.onDone
		return &Pipe[I, O, U, R]{st: stateAwait,
			onValue: func(i I) *Pipe[I, O, U, R] { return protect(rel, onValue(i)) },
			onDone:  func(u U) *Pipe[I, O, U, R] { return protect(rel, onDone(u)) },
		}
	default: // stateEmit
		next := p.next
		return &Pipe[I, O, U, R]{
			st:  stateEmit,
			out: p.out,
			fin: combineFinalizers(p.fin, rel),
			next: func() *Pipe[I, O, U, R] {
				return protect(rel, next())
			},
		}
	}
}
