// Package tracing configures the OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Controller owns the installed tracer provider.
type Controller struct {
	provider *sdktrace.TracerProvider
}

// Init installs a provider exporting to the Jaeger collector at endpoint.
// With an empty endpoint the global no-op provider stays in place and the
// returned Controller shuts down as a no-op.
func Init(endpoint, service string) (*Controller, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	if endpoint == "" {
		log.Println("Tracing disabled: JAEGER_ENDPOINT not set")
		return &Controller{}, nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return nil, fmt.Errorf("jaeger exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(service),
		)),
	)
	otel.SetTracerProvider(tp)
	log.Printf("Tracing enabled, exporting to %s", endpoint)
	return &Controller{provider: tp}, nil
}

// Shutdown flushes pending spans.
func (c *Controller) Shutdown(ctx context.Context) error {
	if c == nil || c.provider == nil {
		return nil
	}
	return c.provider.Shutdown(ctx)
}
