package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RunContext holds observability context for one tracked pipeline run.
type RunContext struct {
	PipelineName  string
	OperationName string
	StreamID      string
	StartTime     time.Time
	Metrics       *PipelineMetrics
}

// NewRunContext creates a new run context.
// If metrics is nil, metric recording is silently skipped.
func NewRunContext(pipelineName, operationName, streamID string, metrics *PipelineMetrics) *RunContext {
	return &RunContext{
		PipelineName:  pipelineName,
		OperationName: operationName,
		StreamID:      streamID,
		StartTime:     time.Now(),
		Metrics:       metrics,
	}
}

// runContextKey is the context key for RunContext.
type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// StartSpanForRun starts a traced span and records the run-start metric.
func (rc *RunContext) StartSpanForRun(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName)
	span.SetAttributes(
		attribute.String(AttrPipelineName, rc.PipelineName),
		attribute.String(AttrOperationName, rc.OperationName),
		attribute.String(AttrStreamID, rc.StreamID),
	)

	if rc.Metrics != nil {
		rc.Metrics.RecordRunStart(ctx)
	}
	return ctx, span
}

// EndRun ends the span and records run-end metrics.
func (rc *RunContext) EndRun(ctx context.Context, span trace.Span, status string, elements int64, err error) {
	duration := time.Since(rc.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrElements, elements),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordRunEnd(ctx, rc.PipelineName, rc.OperationName, status, duration)
		if elements > 0 {
			rc.Metrics.RecordElements(ctx, rc.PipelineName, elements)
		}
	}
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
