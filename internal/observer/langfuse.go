package observer

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"goose/internal/config"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	langfuseEndpoint = "cloud.langfuse.com"
	langfuseURLPath  = "/api/public/otel/v1/traces"
)

func newLangfuseExporter(ctx context.Context, cfg config.ObserverConfig) (sdktrace.SpanExporter, error) {
	opts := langfuseOptions(cfg)
	opts = append(opts, otlptracehttp.WithHTTPClient(&http.Client{
		Transport: &loggingTransport{inner: http.DefaultTransport},
	}))

	slog.Debug("langfuse exporter config",
		"endpoint", orDefault(cfg.Endpoint, langfuseEndpoint),
		"url_path", orDefault(cfg.URLPath, langfuseURLPath),
		"has_keys", cfg.PublicKey != "" && cfg.SecretKey != "",
	)

	return otlptracehttp.New(ctx, opts...)
}

func langfuseOptions(cfg config.ObserverConfig) []otlptracehttp.Option {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(orDefault(cfg.Endpoint, langfuseEndpoint)),
		otlptracehttp.WithURLPath(orDefault(cfg.URLPath, langfuseURLPath)),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if h := basicAuth(cfg.PublicKey, cfg.SecretKey); h != "" {
		opts = append(opts, otlptracehttp.WithHeaders(map[string]string{
			"Authorization": h,
		}))
	}
	return opts
}

// basicAuth is the Authorization header Langfuse expects on its OTLP
// endpoint: the public key as user, the secret key as password.
func basicAuth(publicKey, secretKey string) string {
	if publicKey == "" && secretKey == "" {
		return ""
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(publicKey+":"+secretKey))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// loggingTransport wraps an http.RoundTripper and logs each request/response.
type loggingTransport struct {
	inner http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	slog.Debug("otlp http request",
		"method", req.Method,
		"url", req.URL.String(),
		"content_length", req.ContentLength,
	)
	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		slog.Error("otlp http error", "error", err)
		return resp, err
	}
	slog.Debug("otlp http response", "status", resp.StatusCode, "url", req.URL.String())
	return resp, nil
}
