// Package runner wraps pipeline connections with observability: each run
// gets a stream ID, a span, structured lifecycle logs, and run metrics.
//
//	r := runner.New("ingest", runner.WithMetrics(metrics))
//	result, err := runner.Run(ctx, r, source, sink)
//
// Resumable connections follow the same shape:
//
//	head, rs, err := runner.RunResume(ctx, r, source, headSink)
//	rest, err := runner.RunFinalize(ctx, r, rs, bodySink)
package runner
