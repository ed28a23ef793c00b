package observer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"goose/internal/config"
	"goose/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func profileWithObservers(t *testing.T, observers ...any) *profile.Profile {
	t.Helper()
	p, err := profile.New(profile.Params{
		Provider:    "openai",
		Processor:   "gpt-4o",
		Accelerator: "gpt-4o-mini",
		Moderator:   "synopsis",
		Toolkits:    []any{"developer"},
		Observers:   observers,
	})
	require.NoError(t, err)
	return p
}

func emptyConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(t.TempDir() + "/missing.toml")
	require.NoError(t, err)
	return cfg
}

func TestRegistry_StartExportsProfileSpans(t *testing.T) {
	mem := tracetest.NewInMemoryExporter()
	r := NewRegistry()
	r.Register("memory", func(context.Context, config.ObserverConfig) (sdktrace.SpanExporter, error) {
		return mem, nil
	})

	p := profileWithObservers(t, "memory")
	shutdown, err := r.Start(context.Background(), p, emptyConfig(t))
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "session.start")
	span.SetAttributes(ProfileAttributes(p)...)
	span.End()

	spans := mem.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "session.start", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("goose.provider", "openai"))
	assert.Contains(t, spans[0].Attributes, attribute.StringSlice("goose.toolkits", []string{"developer"}))

	require.NoError(t, shutdown(context.Background()))
}

func TestRegistry_StartUnknownObserver(t *testing.T) {
	var shutdowns int
	r := NewRegistry()
	r.Register("first", func(context.Context, config.ObserverConfig) (sdktrace.SpanExporter, error) {
		return &countingExporter{onShutdown: func() { shutdowns++ }}, nil
	})

	_, err := r.Start(context.Background(), profileWithObservers(t, "first", "datadog"), emptyConfig(t))
	var ue *UnknownObserverError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "datadog", ue.Name)
	assert.Equal(t, 1, shutdowns)
}

func TestRegistry_StartNoObservers(t *testing.T) {
	shutdown, err := NewRegistry().Start(context.Background(), profileWithObservers(t), emptyConfig(t))
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestLangfuse_ExportsWithBasicAuth(t *testing.T) {
	var (
		mu    sync.Mutex
		auth  string
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = r.Header.Get("Authorization")
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := emptyConfig(t)
	cfg.Observers["langfuse"] = &config.ObserverConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		PublicKey: "pk-lf-test",
		SecretKey: "sk-lf-test",
		Insecure:  true,
	}

	shutdown, err := NewRegistry().Start(context.Background(), profileWithObservers(t, "langfuse"), cfg)
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "session.start")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, paths)
	assert.Equal(t, langfuseURLPath, paths[0])
	assert.Equal(t, basicAuth("pk-lf-test", "sk-lf-test"), auth)
}

func TestBasicAuth(t *testing.T) {
	assert.Equal(t, "", basicAuth("", ""))
	assert.Equal(t, "Basic cGs6c2s=", basicAuth("pk", "sk"))
}

type countingExporter struct {
	onShutdown func()
}

func (e *countingExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (e *countingExporter) Shutdown(context.Context) error {
	e.onShutdown()
	return nil
}
