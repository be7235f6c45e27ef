package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vango-dev/routemeta/pkg/registry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "routemeta"

// TransitionSpanName names the span recorded for each activation.
const TransitionSpanName = "routemeta.transition"

// OTelConfig configures tracing.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "routemeta").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider
	TracerProvider trace.TracerProvider

	// IncludeTitle adds the resolved title to transition spans.
	// Enabled by default.
	IncludeTitle bool

	// Filter determines which transitions to trace.
	// If nil, all transitions are traced.
	Filter func(t registry.Transition) bool

	// AttributeExtractor adds custom attributes to transition spans.
	AttributeExtractor func(t registry.Transition) []attribute.KeyValue
}

// OTelOption configures tracing.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeTitle enables/disables the title attribute.
func WithIncludeTitle(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeTitle = include
	}
}

// WithTransitionFilter sets a filter function for transitions.
func WithTransitionFilter(filter func(t registry.Transition) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(t registry.Transition) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:   defaultTracerName,
		IncludeTitle: true,
	}
}

func (c OTelConfig) tracer() trace.Tracer {
	if c.TracerProvider != nil {
		return c.TracerProvider.Tracer(c.TracerName)
	}
	return otel.Tracer(c.TracerName)
}

// Tracing returns a transition hook that records a span per activation.
// The span covers the activation itself: it starts Duration before the hook
// runs.
func Tracing(opts ...OTelOption) registry.Hook {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tracer := config.tracer()

	return func(ctx context.Context, t registry.Transition) {
		if config.Filter != nil && !config.Filter(t) {
			return
		}

		end := time.Now()
		attrs := []attribute.KeyValue{
			attribute.String("route.name", t.To.FullName()),
			attribute.String("route.path", t.To.FullPath()),
		}
		if t.From != nil {
			attrs = append(attrs, attribute.String("route.from", t.From.FullName()))
		}
		if config.IncludeTitle {
			attrs = append(attrs, attribute.String("route.title", t.Title))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(t)...)
		}

		_, span := tracer.Start(ctx, TransitionSpanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(end.Add(-t.Duration)),
		)
		span.End(trace.WithTimestamp(end))
	}
}

// TraceHTTP starts a server span per request, named after the chi route
// pattern once routing is done.
func TraceHTTP(opts ...OTelOption) func(http.Handler) http.Handler {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	tracer := config.tracer()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "routemeta "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("url.path", r.URL.Path),
				),
			)
			defer span.End()

			next.ServeHTTP(w, r.WithContext(ctx))

			if rctx := chi.RouteContext(ctx); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					span.SetName("routemeta " + p)
					span.SetAttributes(attribute.String("http.route", p))
				}
			}
		})
	}
}

// SpanFromContext returns the current span. It never returns nil.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
