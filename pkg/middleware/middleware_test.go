package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/routemeta/pkg/registry"
	"github.com/vango-dev/routemeta/pkg/route"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// =============================================================================
// Test Helpers
// =============================================================================

func testTree() *route.Node {
	return route.Root(route.WithTitle("App")).Routes(
		route.Route("about", route.WithTitle("About")),
		route.Route("members@users").Routes(
			route.Route("show@:user_id", route.WithTitle("Member")),
		),
	)
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

type recordedSpan struct {
	name  string
	kind  trace.SpanKind
	attrs map[attribute.Key]string
	start time.Time
}

// recordingTracer records span starts and otherwise behaves like noop.
type recordingTracer struct {
	noop.Tracer
	mu    sync.Mutex
	spans []recordedSpan
}

func (r *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := recordedSpan{name: name, kind: cfg.SpanKind(), attrs: map[attribute.Key]string{}, start: cfg.Timestamp()}
	for _, kv := range cfg.Attributes() {
		s.attrs[kv.Key] = kv.Value.Emit()
	}
	r.mu.Lock()
	r.spans = append(r.spans, s)
	r.mu.Unlock()
	return r.Tracer.Start(ctx, name, opts...)
}

func (r *recordingTracer) recorded() []recordedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedSpan(nil), r.spans...)
}

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

// =============================================================================
// Prometheus Tests
// =============================================================================

func TestMetricsHook(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	reg := registry.New(testTree(), registry.WithHook(m.Hook()))

	for _, name := range []string{"about", "members.show", "about"} {
		if err := reg.Activate(context.Background(), name); err != nil {
			t.Fatalf("Activate(%q) error = %v", name, err)
		}
	}

	if got := metricCounterValue(t, m.transitionsTotal.WithLabelValues("about")); got != 2 {
		t.Errorf("transitions_total(about) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.transitionsTotal.WithLabelValues("members.show")); got != 1 {
		t.Errorf("transitions_total(members.show) = %v, want 1", got)
	}
	if got := metricHistogramCount(t, m.transitionDuration.WithLabelValues("about")); got != 2 {
		t.Errorf("transition_duration_seconds(about) count = %d, want 2", got)
	}
}

func TestMetricsRecorders(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

	m.RecordSessionOpen()
	m.RecordSessionOpen()
	m.RecordSessionClose()
	m.RecordTitleChange()
	m.RecordUnknownRoute()
	m.RecordWebSocketError("decode")

	if got := metricGaugeValue(t, m.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.titleChanges); got != 1 {
		t.Errorf("title_changes_total = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.unknownRoutes); got != 1 {
		t.Errorf("unknown_routes_total = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.wsErrors.WithLabelValues("decode")); got != 1 {
		t.Errorf("websocket_errors_total(decode) = %v, want 1", got)
	}
}

func TestMetricsRegisteredNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithConstLabels(prometheus.Labels{"app": "demo"}))
	m.transitionsTotal.WithLabelValues("about").Inc()
	m.wsErrors.WithLabelValues("write").Inc()
	m.httpRequests.WithLabelValues("/", "200").Inc()
	m.transitionDuration.WithLabelValues("about").Observe(0.01)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
		for _, metric := range f.GetMetric() {
			found := false
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "app" && lp.GetValue() == "demo" {
					found = true
				}
			}
			if !found {
				t.Errorf("%s is missing the const label", f.GetName())
			}
		}
	}
	for _, want := range []string{
		"routemeta_transitions_total",
		"routemeta_transition_duration_seconds",
		"routemeta_unknown_routes_total",
		"routemeta_title_changes_total",
		"routemeta_active_sessions",
		"routemeta_websocket_errors_total",
		"routemeta_http_requests_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestMetricsHTTP(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	r := chi.NewRouter()
	r.Use(m.HTTP)
	r.Get("/users/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	for _, path := range []string{"/users/1", "/users/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	if got := metricCounterValue(t, m.httpRequests.WithLabelValues("/users/{user_id}", "200")); got != 2 {
		t.Errorf("http_requests_total(/users/{user_id}, 200) = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.httpRequests.WithLabelValues("/missing", "404")); got != 1 {
		t.Errorf("http_requests_total(/missing, 404) = %v, want 1", got)
	}
}

// =============================================================================
// OpenTelemetry Tests
// =============================================================================

func TestOTelConfig(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != "routemeta" {
		t.Errorf("TracerName = %q, want routemeta", config.TracerName)
	}
	if !config.IncludeTitle {
		t.Error("IncludeTitle should default to true")
	}

	WithTracerName("custom")(&config)
	WithIncludeTitle(false)(&config)
	if config.TracerName != "custom" || config.IncludeTitle {
		t.Errorf("options not applied: %+v", config)
	}
}

func TestTracingHook(t *testing.T) {
	tp := newRecordingProvider()
	reg := registry.New(testTree(), registry.WithHook(Tracing(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(registry.Transition) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)))

	if err := reg.Activate(context.Background(), "about"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Activate(context.Background(), "members.show"); err != nil {
		t.Fatal(err)
	}

	spans := tp.tracer.recorded()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}

	first := spans[0]
	if first.name != TransitionSpanName {
		t.Errorf("span name = %q, want %q", first.name, TransitionSpanName)
	}
	if first.kind != trace.SpanKindInternal {
		t.Errorf("span kind = %v", first.kind)
	}
	if first.start.IsZero() {
		t.Error("span start timestamp should be set")
	}
	want := map[attribute.Key]string{
		"route.name":  "about",
		"route.path":  "/about",
		"route.title": "About - App",
		"test.attr":   "ok",
	}
	for k, v := range want {
		if first.attrs[k] != v {
			t.Errorf("attr %s = %q, want %q", k, first.attrs[k], v)
		}
	}
	if _, ok := first.attrs["route.from"]; ok {
		t.Error("first transition should have no route.from")
	}

	second := spans[1]
	if second.attrs["route.from"] != "about" {
		t.Errorf("route.from = %q, want about", second.attrs["route.from"])
	}
	if second.attrs["route.path"] != "/users/:user_id" {
		t.Errorf("route.path = %q", second.attrs["route.path"])
	}
}

func TestTracingFilterAndTitle(t *testing.T) {
	tp := newRecordingProvider()
	hook := Tracing(
		WithTracerProvider(tp),
		WithIncludeTitle(false),
		WithTransitionFilter(func(t registry.Transition) bool {
			return t.To.FullName() != "about"
		}),
	)
	reg := registry.New(testTree(), registry.WithHook(hook))

	_ = reg.Activate(context.Background(), "about")
	_ = reg.Activate(context.Background(), "members.show")

	spans := tp.tracer.recorded()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if spans[0].attrs["route.name"] != "members.show" {
		t.Errorf("route.name = %q", spans[0].attrs["route.name"])
	}
	if _, ok := spans[0].attrs["route.title"]; ok {
		t.Error("route.title should be omitted")
	}
}

func TestTraceHTTP(t *testing.T) {
	tp := newRecordingProvider()

	var sawSpan bool
	r := chi.NewRouter()
	r.Use(TraceHTTP(WithTracerProvider(tp)))
	r.Get("/users/{user_id}", func(w http.ResponseWriter, r *http.Request) {
		sawSpan = SpanFromContext(r.Context()) != nil
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/users/7", nil))

	if !sawSpan {
		t.Error("handler should see a span in its context")
	}
	spans := tp.tracer.recorded()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if spans[0].kind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", spans[0].kind)
	}
	if spans[0].attrs["url.path"] != "/users/7" {
		t.Errorf("url.path = %q", spans[0].attrs["url.path"])
	}
}
