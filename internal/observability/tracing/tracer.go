// Package tracing provides OpenTelemetry tracing support for HTTP request
// handling and collaborator calls.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the application.
var tracer = otel.Tracer("finviz-proxy")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "finviz.quote")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}

// InitProvider installs an SDK tracer provider as the global OTel provider
// and returns a shutdown function to flush spans on exit. Without an
// exporter configured, spans are recorded but not shipped anywhere; wiring
// an OTLP exporter is a deployment concern.
func InitProvider() func(context.Context) error {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
