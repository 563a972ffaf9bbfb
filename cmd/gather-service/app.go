package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vigia/internal/config"
	"vigia/internal/constants"
	"vigia/internal/gather"
	"vigia/internal/logger"
	"vigia/internal/store"
	"vigia/pkg/bootstrap"
	"vigia/pkg/health"
	"vigia/pkg/metrics"
	"vigia/pkg/middleware"
	"vigia/pkg/tracing"
)

const serviceName = "gather-service"

type App struct {
	Config         *config.Config
	Logger         logger.Logger
	connector      *bootstrap.Connector
	objects        *store.MinioStore
	aggregator     *gather.Aggregator
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(serviceName)
	}
	return &App{
		Config:    cfg,
		Logger:    log,
		connector: bootstrap.NewConnector(cfg, log),
	}
}

// InitializeStore connects the object store and builds the aggregator. The
// run subcommand stops here; serve layers the HTTP surface on top.
func (a *App) InitializeStore(ctx context.Context) error {
	objects, err := a.connector.InitStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}
	a.objects = objects
	a.aggregator = gather.NewAggregator(objects, a.Logger)
	return nil
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitializeStore(ctx); err != nil {
		return err
	}

	tp, err := tracing.Init(a.Config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterGatherMetrics()

	a.initHTTPServer()

	return nil
}

func (a *App) initHTTPServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RecoveryMiddleware(a.Logger))

	gather.NewHandler(a.aggregator, a.Logger).RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewObjectStoreChecker(a.objects))

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  a.Config.Server.ReadTimeout(),
		WriteTimeout: a.Config.Server.WriteTimeout(),
	}
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("Shutting down gather service")

	var errs []error

	if a.server != nil {
		serverCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(serverCtx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown error: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.Logger.Info("Application exited successfully")
	return nil
}
