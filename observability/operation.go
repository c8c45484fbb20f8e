package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys shared across operations.
const (
	AttrServiceName   = "service.name"
	AttrOperationName = "operation.name"
	AttrStatus        = "operation.status"
	AttrDurationMs    = "operation.duration_ms"
	AttrErrorMessage  = "error.message"
)

// Operation ties one tracked unit of work to a span and the operation
// metrics. The span is exported through the global tracer provider; with
// no provider configured both the span and a nil Metrics are no-ops.
type Operation struct {
	service string
	name    string
	start   time.Time
	metrics *Metrics
}

// StartOperation begins a traced, measured operation. The returned
// context carries the span for downstream calls.
func StartOperation(ctx context.Context, service, name string, metrics *Metrics) (context.Context, *Operation, trace.Span) {
	ctx, span := StartSpan(ctx, name)
	span.SetAttributes(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrOperationName, name),
	)

	metrics.RecordOperationStart(ctx)

	op := &Operation{
		service: service,
		name:    name,
		start:   time.Now(),
		metrics: metrics,
	}
	return ctx, op, span
}

// End closes the span and records the completed operation, returning the
// elapsed duration. Call it exactly once, after all work attributed to
// the operation has finished.
func (op *Operation) End(ctx context.Context, span trace.Span, status string, err error) time.Duration {
	duration := time.Since(op.start)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	op.metrics.RecordOperation(ctx, op.service, op.name, status, duration)
	return duration
}
