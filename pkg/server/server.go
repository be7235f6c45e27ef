package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/routemeta/internal/errors"
	"github.com/vango-dev/routemeta/pkg/middleware"
	"github.com/vango-dev/routemeta/pkg/reactive"
	"github.com/vango-dev/routemeta/pkg/registry"
	"github.com/vango-dev/routemeta/pkg/render"
	"github.com/vango-dev/routemeta/pkg/router"
)

const (
	// RoutesPath serves the JSON route table.
	RoutesPath = "/_routemeta/routes"

	// FeedPath serves the websocket title feed.
	FeedPath = "/_routemeta/ws"

	// MetricsPath serves Prometheus metrics.
	MetricsPath = "/metrics"
)

// FieldsFunc computes controller fields for a route entered with path
// parameters, such as loading the model a title template reads.
type FieldsFunc func(fullName string, params map[string]string) map[string]any

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithFields sets the function computing controller fields from params.
func WithFields(fn FieldsFunc) Option {
	return func(s *Server) {
		s.fields = fn
	}
}

// WithMetrics counts requests and feed activity in m and serves g on
// /metrics. Transition metrics come from m.Hook on the registry.
func WithMetrics(m *middleware.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithTracing starts a server span per request.
func WithTracing(opts ...middleware.OTelOption) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, middleware.TraceHTTP(opts...))
	}
}

// WithMiddleware adds HTTP middleware in front of every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// Server serves pages, the route table and the title feed for one tree.
type Server struct {
	router   *router.Router
	registry *registry.Registry
	config   *Config

	mux        chi.Router
	renderer   *render.Renderer
	upgrader   websocket.Upgrader
	middleware []func(http.Handler) http.Handler
	fields     FieldsFunc

	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer

	// mu serializes controller updates with the title reads that follow
	// them.
	mu sync.Mutex

	sessionsMu sync.Mutex
	sessions   map[*session]struct{}

	httpServer *http.Server
	listener   net.Listener

	logger *slog.Logger
}

// New builds a server for the materialized router r. reg must index the
// same tree.
func New(r *router.Router, reg *registry.Registry, config *Config, opts ...Option) (*Server, error) {
	config = config.withDefaults()
	s := &Server{
		router:   r,
		registry: reg,
		config:   config,
		renderer: render.NewRenderer(render.RendererConfig{Pretty: config.Pretty}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		sessions: make(map[*session]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "server")
	}

	mux := chi.NewRouter()
	mux.Use(releaseTracking, chimw.Recoverer)
	if s.metrics != nil {
		mux.Use(s.metrics.HTTP)
	}
	for _, mw := range s.middleware {
		mux.Use(mw)
	}

	mux.Get(RoutesPath, s.handleRoutes)
	mux.Get(FeedPath, s.handleFeed)
	if s.gatherer != nil {
		mux.Handle(MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if err := router.Mount(mux, r.Root(), s.page, s.logger.WithGroup("routes")); err != nil {
		return nil, err
	}

	s.mux = mux
	return s, nil
}

// releaseTracking drops the reactive tracking state of the serving
// goroutine once a request is done. net/http reuses a connection's goroutine
// across keep-alive requests, so state left by a recovered panic would
// otherwise leak into the next request.
func releaseTracking(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer reactive.Release()
		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the server's chi router for mounting elsewhere.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Registry returns the registry pages fork from.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// transition applies the FieldsFunc fields for a route and activates it on
// fork, returning the resulting title.
func (s *Server) transition(ctx context.Context, fork *registry.Registry, fullName string, params map[string]string) (string, error) {
	n, ok := s.registry.MetaForRoute(fullName)
	if !ok {
		if s.metrics != nil {
			s.metrics.RecordUnknownRoute()
		}
		return "", errors.New("E103").WithRoute(fullName)
	}

	var fields map[string]any
	if s.fields != nil {
		fields = s.fields(fullName, params)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(fields) > 0 {
		n.Controller().SetFields(fields)
	}
	if err := fork.Activate(ctx, fullName); err != nil {
		return "", err
	}
	return fork.CurrentTitle(), nil
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Address)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown closes title feed sessions and gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessionsMu.Lock()
	for sess := range s.sessions {
		sess.close()
	}
	s.sessionsMu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
