package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tournevent/shipcallback/internal/callback"
	"github.com/tournevent/shipcallback/internal/config"
	"github.com/tournevent/shipcallback/internal/server"
	"github.com/tournevent/shipcallback/internal/telemetry"
	"github.com/tournevent/shipcallback/pkg/provider"
	"github.com/tournevent/shipcallback/pkg/provider/braintree"
	"github.com/tournevent/shipcallback/pkg/provider/paypal"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type app struct {
	cfg      *config.Config
	logger   *otelzap.Logger
	registry *provider.Registry
	handler  *callback.Handler
	server   *server.Server
	shutdown func(context.Context) error
}

func initApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
		tracerShutdown = func(context.Context) error { return nil }
	}

	registry := initProviderRegistry(cfg)
	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	handler := callback.New(registry, logger, metrics,
		callback.WithTracer(otel.GetTracerProvider().Tracer(cfg.ServiceName)),
	)

	srv := server.New(server.Config{
		Port:         cfg.Port,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Routes:       initRoutes(cfg),
	}, handler, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		handler:  handler,
		server:   srv,
		shutdown: tracerShutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("Tracer shutdown failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.Attributes())
	return shutdown, err
}

func initProviderRegistry(cfg *config.Config) *provider.Registry {
	registry := provider.NewRegistry()

	if cfg.BraintreeEnabled {
		registry.Register(braintree.New(braintree.Config{
			RejectionStatus: cfg.BraintreeRejectionStatus,
		}))
	}

	if cfg.PayPalEnabled {
		registry.Register(paypal.New(paypal.Config{
			RejectionStatus: cfg.PayPalRejectionStatus,
		}))
	}

	return registry
}

func initRoutes(cfg *config.Config) []server.Route {
	var routes []server.Route
	if cfg.BraintreeEnabled {
		routes = append(routes, server.Route{Path: cfg.BraintreePath, Provider: "braintree"})
	}
	if cfg.PayPalEnabled {
		routes = append(routes, server.Route{Path: cfg.PayPalPath, Provider: "paypal"})
	}
	return routes
}
