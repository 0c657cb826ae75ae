package pipe

import "context"

// ResumableSource pairs a still-runnable producer with the single
// outstanding finalizer owed to it. It is created by ConnectResume and must
// be finalized exactly once, either through ConnectFinalize or Finalize.
// Finalizing twice is a no-op; never finalizing leaks whatever the producer
// holds open.
type ResumableSource[O any] struct {
	src       *Source[O]
	fin       *Finalizer
	finalized bool
}

// NewResumableSource wraps a fresh producer that owes no finalizer yet.
func NewResumableSource[O any](src *Source[O]) *ResumableSource[O] {
	return &ResumableSource[O]{src: src}
}

// Finalize runs the outstanding finalizer. After the first call the
// contained producer behaves as already exhausted; repeat calls are no-ops.
func (rs *ResumableSource[O]) Finalize(ctx context.Context) error {
	if rs.finalized {
		return nil
	}
	rs.finalized = true
	rs.src = &Source[O]{st: stateDone}
	return rs.fin.Run(ctx)
}

// Unwrap projects the resumable source to its plain producer and
// outstanding finalizer. The caller becomes responsible for running the
// finalizer exactly once.
func (rs *ResumableSource[O]) Unwrap() (*Source[O], *Finalizer) {
	return rs.src, rs.fin
}

// Connect drains the source into the sink, always releasing the producer
// before returning. Equivalent to a ConnectResume immediately followed by
// finalization of the remaining producer.
func Connect[O, R any](ctx context.Context, src *Source[O], snk *Sink[O, R]) (R, error) {
	r, rs, err := ConnectResume(ctx, src, snk)
	if err != nil {
		return r, err
	}
	if err := rs.Finalize(ctx); err != nil {
		return r, err
	}
	return r, nil
}

// ConnectResume runs the pull loop until the sink reaches its terminal
// state and returns the sink's result together with a ResumableSource
// capturing whatever of the producer is left. The outstanding finalizer is
// not run; ownership transfers to the caller, who must eventually finalize.
func ConnectResume[O, R any](ctx context.Context, src *Source[O], snk *Sink[O, R]) (R, *ResumableSource[O], error) {
	return resumeLoop(ctx, src, nil, snk)
}

// Resume continues a partially-drained producer with a new sink. The
// returned ResumableSource supersedes rs.
func Resume[O, R any](ctx context.Context, rs *ResumableSource[O], snk *Sink[O, R]) (R, *ResumableSource[O], error) {
	if rs.finalized {
		return resumeLoop(ctx, &Source[O]{st: stateDone}, nil, snk)
	}
	return resumeLoop(ctx, rs.src, rs.fin, snk)
}

// ConnectFinalize is the release-guaranteeing counterpart of
// ConnectResume: it continues the producer with the sink and always runs
// the outstanding finalizer before returning.
func ConnectFinalize[O, R any](ctx context.Context, rs *ResumableSource[O], snk *Sink[O, R]) (R, error) {
	r, rs2, err := Resume(ctx, rs, snk)
	if err != nil {
		return r, err
	}
	if err := rs2.Finalize(ctx); err != nil {
		return r, err
	}
	return r, nil
}

// resumeLoop is the fusion-driven pull loop shared by the connect
// operators. fin is the producer finalizer currently live. On an effect
// error the live finalizer runs before the error is returned, so unwinding
// releases in-flight resources.
func resumeLoop[O, R any](ctx context.Context, left *Source[O], fin *Finalizer, right *Sink[O, R]) (R, *ResumableSource[O], error) {
	var zero R
	for {
		switch right.st {
		case stateDone:
			return right.result, &ResumableSource[O]{src: left, fin: fin}, nil

		case stateEffect:
			q, err := right.effect(ctx)
			if err != nil {
				_ = fin.Run(ctx)
				return zero, nil, err
			}
			right = q

		case statePushBack:
			// Replay the sink's push-back by prepending it to the producer,
			// keeping the current finalizer attached.
			v, l, f := right.lo, left, fin
			left = &Source[O]{st: stateEmit, out: v, fin: f, next: func() *Source[O] { return l }}
			right = right.next()

		case stateEmit:
			// Sinks have no output channel; nothing to deliver.
			right = right.next()

		case stateAwait:
			switch left.st {
			case stateEmit:
				v, lfin, lnext := left.out, left.fin, left.next
				left = lnext()
				fin = lfin
				right = right.onValue(v)

			case stateDone:
				fin = nil
				right = right.onDone(None{})

			case stateEffect:
				q, err := left.effect(ctx)
				if err != nil {
					_ = fin.Run(ctx)
					return zero, nil, err
				}
				left = q

			case statePushBack:
				// A source has nowhere to push back to; the value is dropped.
				left = left.next()

			default: // stateAwait
				// A source's upstream is empty: deliver end-of-stream.
				left = left.onDone(None{})
			}
		}
	}
}
