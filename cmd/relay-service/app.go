package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"noterelay/internal/config"
	"noterelay/internal/constants"
	"noterelay/internal/deduplication"
	"noterelay/internal/discord"
	"noterelay/internal/logger"
	"noterelay/internal/relay"
	"noterelay/pkg/bootstrap"
	"noterelay/pkg/health"
	"noterelay/pkg/metrics"
	"noterelay/pkg/middleware"
	"noterelay/pkg/ratelimit"
	"noterelay/pkg/tracing"
)

type App struct {
	*bootstrap.Base

	registry       *prometheus.Registry
	router         *gin.Engine
	servers        []*http.Server
	rateLimits     *ratelimit.Store
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base: bootstrap.NewBase(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.Config.Tracing, constants.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp
	a.OnShutdown("tracer provider", tp.Shutdown)

	a.initMetrics()

	if err := a.initRouter(ctx); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	a.initServers()
	return nil
}

func (a *App) initMetrics() {
	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.RegisterRelayMetrics(a.registry)
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics(a.registry)
	}
	if a.Config.RateLimit.Enabled {
		metrics.RegisterRateLimitMetrics(a.registry)
	}
}

func (a *App) initRouter(ctx context.Context) error {
	cache, err := deduplication.NewCache(a.Config.Dedup.Capacity)
	if err != nil {
		return err
	}

	var sender discord.Sender = discord.NewClient(discord.ClientConfig{
		BaseURL:   a.Config.Delivery.BaseURL,
		UserAgent: a.Config.Delivery.UserAgent,
		Timeout:   a.Config.Delivery.Timeout,
	})

	a.Logger.InfowCtx(ctx, "Dedup cache ready", "capacity", cache.Capacity())

	healthRegistry := health.NewCheckerRegistry()

	if a.Config.CircuitBreaker.Enabled {
		breaker := discord.NewCircuitBreakerSender(sender, a.Config.CircuitBreaker)
		healthRegistry.Register(health.NewCircuitChecker("discord", breaker))
		sender = breaker
		a.Logger.InfowCtx(ctx, "Circuit breaker enabled for Discord delivery")
	}

	service := relay.NewService(cache, sender, a.Logger)
	handler := relay.NewHandler(service, a.Logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(constants.ServiceName))
	}

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))

	router.GET("/health", healthRegistry.Handler())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry})))

	relayRoutes := router.Group("/")
	if a.Config.RateLimit.Enabled {
		a.rateLimits = ratelimit.NewStore(a.Config.RateLimit)
		relayRoutes.Use(a.rateLimits.Middleware())
		a.Logger.InfowCtx(ctx, "Rate limiting enabled", "rps", a.Config.RateLimit.RPS, "burst", a.Config.RateLimit.Burst)
	}
	relayRoutes.Use(middleware.BodyLimitMiddleware(a.Config.Server.MaxBodyBytes))
	handler.RegisterRoutes(relayRoutes)

	a.router = router
	return nil
}

func (a *App) listenAddrs() []string {
	if len(a.Config.Server.ListenAddrs) > 0 {
		return a.Config.Server.ListenAddrs
	}
	return []string{net.JoinHostPort("", strconv.Itoa(a.Config.Server.Port))}
}

func (a *App) initServers() {
	for _, addr := range a.listenAddrs() {
		a.servers = append(a.servers, &http.Server{
			Addr:         addr,
			Handler:      a.router,
			ReadTimeout:  a.Config.Server.ReadTimeout,
			WriteTimeout: a.Config.Server.WriteTimeout,
		})
	}
}

// Run serves on every listener until ctx is cancelled or one listener fails,
// then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.rateLimits != nil {
		g.Go(func() error {
			a.rateLimits.RunCleanup(gctx)
			return nil
		})
	}

	for _, srv := range a.servers {
		g.Go(func() error {
			a.Logger.InfowCtx(ctx, "Server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s error: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.InfowCtx(ctx, "Shutting down servers")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range a.servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server %s shutdown error: %w", srv.Addr, err))
		}
	}

	if err := a.Base.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
