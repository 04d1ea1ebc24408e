package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/sanLimbu/task-manager/internal/envvar"
)

// NewOTExporter instantiates the OpenTelemetry exporters using configuration defined in environment variables.
// The returned handler serves the Prometheus metrics, the returned func flushes and stops both providers.
func NewOTExporter(conf *envvar.Configuration, serviceName string) (http.Handler, func(context.Context) error, error) {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	// Set up prometheus exporter
	promExporter, err := prometheus.New(prometheus.WithoutUnits())
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus.New: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(promExporter),
		metric.WithResource(res),
	)

	otel.SetMeterProvider(meterProvider)

	// Set up the trace provider, spans are only exported when OTEL_TRACES_STDOUT is enabled
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	stdout, err := conf.GetDefault("OTEL_TRACES_STDOUT", "false")
	if err != nil {
		return nil, nil, fmt.Errorf("conf.Get OTEL_TRACES_STDOUT: %w", err)
	}

	if enabled, _ := strconv.ParseBool(stdout); enabled {
		traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("stdouttrace.New: %w", err)
		}

		opts = append(opts, sdktrace.WithBatcher(traceExporter))
	}

	traceProvider := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(traceProvider)

	// Set global propagator
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	shutdown := func(ctx context.Context) error {
		return errors.Join(traceProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}

	return promhttp.Handler(), shutdown, nil
}
