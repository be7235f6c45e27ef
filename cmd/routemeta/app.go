package main

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vango-dev/routemeta/internal/config"
	"github.com/vango-dev/routemeta/internal/demo"
	"github.com/vango-dev/routemeta/pkg/manifest"
	"github.com/vango-dev/routemeta/pkg/middleware"
	"github.com/vango-dev/routemeta/pkg/registry"
	"github.com/vango-dev/routemeta/pkg/route"
	"github.com/vango-dev/routemeta/pkg/router"
	"github.com/vango-dev/routemeta/pkg/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// loadTree returns the configured manifest's tree, or the demo tree.
func loadTree(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*route.Node, error) {
	if cfg.Manifest == "" {
		return demo.App(), nil
	}
	opts := []manifest.LoaderOption{manifest.WithLogger(logger.With("component", "manifest"))}
	if cfg.IsRemoteManifest() {
		opts = append(opts, manifest.WithS3(manifest.NewS3Client(manifest.S3Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})))
	}
	return manifest.NewLoader(opts...).Load(ctx, cfg.ManifestPath())
}

// fieldsFor returns the demo model hook when serving the demo tree.
func fieldsFor(cfg *config.Config) server.FieldsFunc {
	if cfg.Manifest == "" {
		return demo.Fields
	}
	return nil
}

func newRouter(cfg *config.Config, root *route.Node, logger *slog.Logger) (*router.Router, error) {
	return router.ToRouter(root, router.Config{
		Location: router.Location(cfg.Location),
		Logger:   logger.With("component", "router"),
	})
}

// telemetry holds the optional observability parts.
type telemetry struct {
	registry *prometheus.Registry
	metrics  *middleware.Metrics
}

func newTelemetry(cfg *config.Config) *telemetry {
	t := &telemetry{}
	if cfg.Metrics.Enabled {
		t.registry = prometheus.NewRegistry()
		t.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		t.metrics = middleware.NewMetrics(
			middleware.WithRegistry(t.registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
	}
	return t
}

func newRegistry(cfg *config.Config, r *router.Router, t *telemetry, logger *slog.Logger) *registry.Registry {
	opts := []registry.Option{registry.WithLogger(logger.With("component", "registry"))}
	if t.metrics != nil {
		opts = append(opts, registry.WithHook(t.metrics.Hook()))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, registry.WithHook(middleware.Tracing(middleware.WithTracerName(cfg.Tracing.TracerName))))
	}
	return registry.New(r.Root(), opts...)
}

func newServer(lc fx.Lifecycle, cfg *config.Config, r *router.Router, reg *registry.Registry, t *telemetry, logger *slog.Logger) (*server.Server, error) {
	display, err := cfg.DisplayMode()
	if err != nil {
		return nil, err
	}

	opts := []server.Option{
		server.WithLogger(logger.With("component", "server")),
		server.WithFields(fieldsFor(cfg)),
	}
	if t.metrics != nil {
		opts = append(opts, server.WithMetrics(t.metrics, t.registry))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, server.WithTracing(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	s, err := server.New(r, reg, &server.Config{
		Address: cfg.Address(),
		Display: display,
		Pretty:  cfg.Server.Pretty,
	}, opts...)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Shutdown,
	})
	return s, nil
}

// appOptions wires the serve command. The tree is loaded before the graph
// is built so manifest errors surface before fx starts.
func appOptions(cfg *config.Config, root *route.Node, logger *slog.Logger) fx.Option {
	return fx.Options(
		fx.Supply(cfg, root, logger),
		fx.Provide(
			newRouter,
			newTelemetry,
			newRegistry,
			newServer,
		),
		fx.Invoke(func(*server.Server) {}),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With("component", "fx")}
		}),
	)
}
