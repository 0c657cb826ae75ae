// Package observability provides OpenTelemetry tracing and metrics for
// stream pipeline runs.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("conduit"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanConnect)
//	defer span.End()
//
// Metrics:
//
//	cfg := observability.DefaultMeterConfig("conduit")
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("conduit"))
//	metrics.RecordRunEnd(ctx, "ingest", "connect", "ok", duration)
//
// Run tracking ties a span and the run metrics together:
//
//	rc := observability.NewRunContext("ingest", "connect", streamID, metrics)
//	ctx, span := rc.StartSpanForRun(ctx, observability.SpanConnect)
//	// ... drive the pipeline ...
//	rc.EndRun(ctx, span, "ok", elements, nil)
package observability
