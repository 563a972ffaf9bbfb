package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"vigia/internal/broker"
	"vigia/internal/config"
	"vigia/internal/constants"
	"vigia/internal/enrich"
	"vigia/internal/extract"
	"vigia/internal/logger"
	"vigia/internal/store"
	"vigia/internal/transcribe"
	"vigia/internal/webhook"
	"vigia/pkg/bootstrap"
	"vigia/pkg/circuitbreaker"
	"vigia/pkg/health"
	"vigia/pkg/logging"
	"vigia/pkg/metrics"
	"vigia/pkg/middleware"
	"vigia/pkg/ratelimit"
	"vigia/pkg/tracing"
)

const serviceName = "ingest-service"

type App struct {
	*bootstrap.Base
	connector      *bootstrap.Connector
	redis          *redis.Client
	objects        *store.MinioStore
	service        *enrich.Service
	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(serviceName)
	}
	return &App{
		Base:      bootstrap.NewBase(cfg, log),
		connector: bootstrap.NewConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	rdb, err := a.connector.InitRedis(ctx)
	if err != nil {
		initCtx := logging.WithServiceName(ctx, serviceName)
		a.Logger.WarnwCtx(initCtx, "Redis initialization failed, transcript cache disabled",
			"error", err,
		)
	}
	a.redis = rdb

	objects, err := a.connector.InitStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}
	a.objects = objects

	a.initService()

	if a.Config.Broker.Type != "" {
		if err := a.InitBroker(serviceName); err != nil {
			return fmt.Errorf("failed to initialize broker: %w", err)
		}
	}

	tp, err := tracing.Init(a.Config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterIngestMetrics()
	if a.Config.Broker.Type != "" {
		metrics.RegisterBrokerMetrics()
	}
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	a.initHTTPServer()

	return nil
}

// initService assembles the enrichment pipeline: the whisper transcriber
// behind cache and breaker decorators, the chat extractor behind its own
// breaker, the platform media fetcher and the object store.
func (a *App) initService() {
	var transcriber transcribe.Transcriber = transcribe.NewWhisperTranscriber(
		a.Config.OpenAI, a.Config.Transcription, a.Logger)

	if a.redis != nil {
		ttl := constants.DefaultTranscriptTTL
		if a.Config.Cache.TTLSeconds > 0 {
			ttl = secondsToDuration(a.Config.Cache.TTLSeconds)
		}
		transcriber = transcribe.NewCached(
			transcriber, transcribe.NewRedisCache(a.redis), ttl, a.Logger)
	}

	var extractor extract.Extractor = extract.NewChatExtractor(
		a.Config.OpenAI, a.Config.Extraction, a.Logger)

	if a.Config.CircuitBreaker.Enabled {
		transcriber = transcribe.NewBreakered(transcriber,
			breakerFromConfig("transcription", a.Config.CircuitBreaker))
		extractor = extract.NewBreakered(extractor,
			breakerFromConfig("extraction", a.Config.CircuitBreaker))
	}

	media := enrich.NewHTTPMediaFetcher(a.Config.Media, a.Logger)

	a.service = enrich.NewService(media, transcriber, extractor, a.objects, a.Logger)
}

func (a *App) initHTTPServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RecoveryMiddleware(a.Logger))

	if a.Config.RateLimit.Enabled {
		rlConfig := ratelimit.DefaultConfig()
		if a.Config.RateLimit.RPS > 0 {
			rlConfig.RPS = a.Config.RateLimit.RPS
		}
		if a.Config.RateLimit.Burst > 0 {
			rlConfig.Burst = a.Config.RateLimit.Burst
		}
		router.Use(ratelimit.RateLimitMiddleware(rlConfig))
	}

	var publisher webhook.Publisher
	if a.Producer != nil {
		publisher = broker.NewDeliveryPublisher(a.Producer, a.Config.Broker.Kafka.EventsTopic)
	}
	webhookHandler := webhook.NewHandler(a.Config.Webhook.VerifyToken, publisher, a.service, a.Logger)
	webhookHandler.RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	if a.redis != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redis))
	}
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
	g, gCtx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error {
			a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	if a.Consumer != nil {
		topic := a.Config.Broker.Kafka.EventsTopic
		if topic == "" {
			topic = constants.DefaultEventsTopic
		}
		g.Go(func() error {
			return a.Consumer.Consume(gCtx, topic, a.handleDelivery)
		})
	}

	return g.Wait()
}

// handleDelivery processes a delivery consumed from the events topic.
// Malformed payloads are dropped; the consumer's retry and DLQ policy covers
// processing failures.
func (a *App) handleDelivery(ctx context.Context, delivery broker.Delivery) error {
	var envelope webhook.Envelope
	if err := json.Unmarshal(delivery.Payload, &envelope); err != nil {
		a.Logger.ErrorwCtx(ctx, "Dropping malformed delivery payload",
			"error", err,
		)
		return nil
	}

	return a.service.ProcessEnvelope(ctx, &envelope)
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, serviceName)
	a.Logger.InfowCtx(shutdownCtx, "Shutting down ingest service")

	additionalShutdown := func(ctx context.Context) []error {
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

		errs = append(errs, a.connector.ShutdownConnections(a.redis)...)

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}

func breakerFromConfig(name string, cfg config.CircuitBreakerConfig) *circuitbreaker.Wrapper {
	c := circuitbreaker.DefaultConfig(name)
	if cfg.MaxRequests > 0 {
		c.MaxRequests = cfg.MaxRequests
	}
	if cfg.Interval > 0 {
		c.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	if cfg.FailureRatio > 0 {
		minRequests := cfg.MinRequests
		if minRequests == 0 {
			minRequests = 3
		}
		c.ReadyToTrip = func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= cfg.FailureRatio
		}
	}
	return circuitbreaker.NewWrapper(c)
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}
