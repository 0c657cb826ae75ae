package runner

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/altos-research/conduit/errors"
	"github.com/altos-research/conduit/logger"
	"github.com/altos-research/conduit/observability"
	"github.com/altos-research/conduit/pipe"
)

// Runner drives pipeline runs with structured logging, tracing, and
// metrics around each connection. A zero-option Runner logs through the
// global logger and records no metrics.
type Runner struct {
	name    string
	log     *logger.Logger
	metrics *observability.PipelineMetrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for run lifecycle events.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithMetrics enables metric recording for runs.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// New creates a Runner for the named pipeline.
func New(name string, opts ...Option) *Runner {
	r := &Runner{name: name}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get("runner")
	}
	return r
}

// Name returns the pipeline name.
func (r *Runner) Name() string { return r.name }

// Run connects a source to a sink, running all finalizers, and returns
// the sink's result. Each run gets a fresh stream ID carried in the
// context, a span, and run metrics.
func Run[O, R any](ctx context.Context, r *Runner, src *pipe.Source[O], snk *pipe.Sink[O, R]) (R, error) {
	run := beginRun(ctx, r, "connect", observability.SpanConnect)
	src, counter := countSource(src)

	res, err := pipe.Connect(run.ctx, src, snk)
	run.end(counter.Load(), err)
	return res, err
}

// RunResume connects a source to a sink but keeps the source alive for
// further connections. The caller owns the returned resumable source and
// must eventually finalize it (RunFinalize does both at once).
func RunResume[O, R any](ctx context.Context, r *Runner, src *pipe.Source[O], snk *pipe.Sink[O, R]) (R, *pipe.ResumableSource[O], error) {
	run := beginRun(ctx, r, "resume", observability.SpanResume)
	src, counter := countSource(src)

	res, rs, err := pipe.ConnectResume(run.ctx, src, snk)
	run.end(counter.Load(), err)
	return res, rs, err
}

// RunResumed continues a previously suspended source with another sink.
// Element counts are not tracked on resumed runs; the original counter
// stays attached to the underlying source.
func RunResumed[O, R any](ctx context.Context, r *Runner, rs *pipe.ResumableSource[O], snk *pipe.Sink[O, R]) (R, *pipe.ResumableSource[O], error) {
	run := beginRun(ctx, r, "resume", observability.SpanResume)

	res, next, err := pipe.Resume(run.ctx, rs, snk)
	run.end(0, err)
	return res, next, err
}

// RunFinalize continues a suspended source with a final sink, then
// releases the source whether or not the sink succeeded.
func RunFinalize[O, R any](ctx context.Context, r *Runner, rs *pipe.ResumableSource[O], snk *pipe.Sink[O, R]) (R, error) {
	run := beginRun(ctx, r, "finalize", observability.SpanFinalize)

	res, err := pipe.ConnectFinalize(run.ctx, rs, snk)
	run.end(0, err)
	return res, err
}

// Finalize releases a suspended source without consuming more of it.
func Finalize[O any](ctx context.Context, r *Runner, rs *pipe.ResumableSource[O]) error {
	run := beginRun(ctx, r, "finalize", observability.SpanFinalize)
	err := rs.Finalize(run.ctx)
	run.end(0, err)
	return err
}

// countSource wraps a source so every produced element bumps the counter.
func countSource[O any](src *pipe.Source[O]) (*pipe.Source[O], *atomic.Int64) {
	var n atomic.Int64
	counted := pipe.Through(src, pipe.Tap(func(context.Context, O) error {
		n.Add(1)
		return nil
	}))
	return counted, &n
}

// activeRun carries the per-run observability state between begin and end.
type activeRun struct {
	ctx      context.Context
	runner   *Runner
	op       string
	streamID string
	endSpan  func(status string, elements int64, err error)
	start    time.Time
}

func beginRun(ctx context.Context, r *Runner, op, spanName string) *activeRun {
	streamID := uuid.NewString()
	ctx = logger.WithStreamID(ctx, streamID)

	rc := observability.NewRunContext(r.name, op, streamID, r.metrics)
	ctx, span := rc.StartSpanForRun(ctx, spanName)

	r.log.WithContext(ctx).Debug("pipeline run starting", logger.StreamFields(streamID, op))

	run := &activeRun{
		ctx:      ctx,
		runner:   r,
		op:       op,
		streamID: streamID,
		start:    time.Now(),
	}
	run.endSpan = func(status string, elements int64, err error) {
		rc.EndRun(ctx, span, status, elements, err)
	}
	return run
}

func (a *activeRun) end(elements int64, err error) {
	duration := time.Since(a.start)

	if err != nil {
		se := errors.Foreign(err)
		a.endSpan("error", elements, se)
		if a.runner.metrics != nil {
			a.runner.metrics.RecordError(a.ctx, string(se.Code), "runner")
		}
		a.runner.log.WithContext(a.ctx).Error("pipeline run failed",
			logger.MergeWithError(logger.StreamFields(a.streamID, a.op), se))
		return
	}

	a.endSpan("ok", elements, nil)
	fields := logger.MergeWithDuration(logger.StreamFields(a.streamID, a.op), duration)
	if elements > 0 {
		fields[logger.FieldElements] = elements
	}
	a.runner.log.WithContext(a.ctx).Info("pipeline run completed", fields)
}
