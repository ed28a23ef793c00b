package observer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"goose/internal/config"
	"goose/internal/profile"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "goose"

// Factory builds the span exporter for one observer from its settings.
type Factory func(ctx context.Context, cfg config.ObserverConfig) (sdktrace.SpanExporter, error)

// Shutdown flushes and stops the observers started by Registry.Start.
type Shutdown func(context.Context) error

// UnknownObserverError is returned when a profile names an observer that is
// not registered.
type UnknownObserverError struct {
	Name string
}

func (e *UnknownObserverError) Error() string {
	return fmt.Sprintf("unknown observer: %s", e.Name)
}

type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in observers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("langfuse", newLangfuseExporter)
	return r
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

func (r *Registry) Get(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// otelErrorHandler logs OTel internal errors via slog.
type otelErrorHandler struct{}

func (otelErrorHandler) Handle(err error) {
	slog.Error("otel error", "error", err)
}

// Start builds an exporter for every observer of p, in order, and installs
// one tracer provider exporting to all of them. A profile without observers
// leaves the global provider alone.
func (r *Registry) Start(ctx context.Context, p *profile.Profile, cfg *config.Config) (Shutdown, error) {
	specs := p.Observers()
	if len(specs) == 0 {
		return func(context.Context) error { return nil }, nil
	}

	otel.SetErrorHandler(otelErrorHandler{})

	var exporters []sdktrace.SpanExporter
	abort := func(err error) (Shutdown, error) {
		for _, e := range exporters {
			if serr := e.Shutdown(ctx); serr != nil {
				err = errors.Join(err, serr)
			}
		}
		return nil, err
	}

	for _, spec := range specs {
		factory, ok := r.factories[spec.Name]
		if !ok {
			return abort(&UnknownObserverError{Name: spec.Name})
		}
		inner, err := factory(ctx, cfg.Observer(spec.Name))
		if err != nil {
			return abort(fmt.Errorf("starting observer %s: %w", spec.Name, err))
		}
		exporters = append(exporters, &loggingExporter{name: spec.Name, inner: inner})
		slog.Info("observer started", "name", spec.Name)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return abort(err)
	}

	// Sync processors surface export errors immediately.
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, e := range exporters {
		opts = append(opts, sdktrace.WithSyncer(e))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns the goose tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(serviceName)
}

// ProfileAttributes describes p as span attributes.
func ProfileAttributes(p *profile.Profile) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("goose.provider", p.Provider()),
		attribute.String("goose.processor", p.Processor()),
		attribute.String("goose.accelerator", p.Accelerator()),
		attribute.String("goose.moderator", p.Moderator()),
		attribute.StringSlice("goose.toolkits", p.ToolkitNames()),
		attribute.StringSlice("goose.observers", p.ObserverNames()),
	}
}

// loggingExporter wraps a SpanExporter and logs each export call.
type loggingExporter struct {
	name  string
	inner sdktrace.SpanExporter
}

func (e *loggingExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name()
	}
	slog.Debug("exporting spans", "observer", e.name, "count", len(spans), "names", names)
	err := e.inner.ExportSpans(ctx, spans)
	if err != nil {
		slog.Error("span export failed", "observer", e.name, "error", err)
	}
	return err
}

func (e *loggingExporter) Shutdown(ctx context.Context) error {
	return e.inner.Shutdown(ctx)
}
