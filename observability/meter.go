package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/altos-research/conduit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipelineMetrics holds OpenTelemetry metric instruments for pipeline runs.
type PipelineMetrics struct {
	runTotal       metric.Int64Counter
	runDuration    metric.Float64Histogram
	runActive      metric.Int64UpDownCounter
	elementTotal   metric.Int64Counter
	finalizerTotal metric.Int64Counter
	errorTotal     metric.Int64Counter
}

// NewPipelineMetrics creates pipeline metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runTotal, err := meter.Int64Counter("pipeline.run.total",
		metric.WithDescription("Total number of pipeline runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.run.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("pipeline.run.duration",
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.run.duration histogram: %w", err)
	}

	runActive, err := meter.Int64UpDownCounter("pipeline.run.active",
		metric.WithDescription("Number of currently running pipelines"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.run.active gauge: %w", err)
	}

	elementTotal, err := meter.Int64Counter("pipeline.element.total",
		metric.WithDescription("Total number of elements delivered downstream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.element.total counter: %w", err)
	}

	finalizerTotal, err := meter.Int64Counter("pipeline.finalizer.total",
		metric.WithDescription("Total number of producer finalizers run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.finalizer.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("pipeline.error.total",
		metric.WithDescription("Total pipeline errors by code and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.error.total counter: %w", err)
	}

	return &PipelineMetrics{
		runTotal:       runTotal,
		runDuration:    runDuration,
		runActive:      runActive,
		elementTotal:   elementTotal,
		finalizerTotal: finalizerTotal,
		errorTotal:     errorTotal,
	}, nil
}

// RecordRunStart increments the active run count.
func (m *PipelineMetrics) RecordRunStart(ctx context.Context) {
	m.runActive.Add(ctx, 1)
}

// RecordRunEnd decrements active runs and records the completed run.
func (m *PipelineMetrics) RecordRunEnd(ctx context.Context, pipeline, operation, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.runActive.Add(ctx, -1)
	m.runTotal.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("operation", operation),
	))
}

// RecordElements adds delivered elements for a pipeline.
func (m *PipelineMetrics) RecordElements(ctx context.Context, pipeline string, n int64) {
	m.elementTotal.Add(ctx, n, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
	))
}

// RecordFinalizer records one producer finalizer execution.
func (m *PipelineMetrics) RecordFinalizer(ctx context.Context, pipeline string) {
	m.finalizerTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
	))
}

// RecordError records a pipeline error by code and component.
func (m *PipelineMetrics) RecordError(ctx context.Context, code, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}
