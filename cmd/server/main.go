package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/sync/errgroup"

	_ "github.com/tair/pharmacy-backend/docs"
	"github.com/tair/pharmacy-backend/internal/catalog"
	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/internal/customer"
	"github.com/tair/pharmacy-backend/internal/expense"
	"github.com/tair/pharmacy-backend/internal/inventory"
	inventoryHTTP "github.com/tair/pharmacy-backend/internal/inventory/delivery/http"
	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/notification"
	"github.com/tair/pharmacy-backend/internal/notification/dispatcher"
	"github.com/tair/pharmacy-backend/internal/report"
	"github.com/tair/pharmacy-backend/internal/settings"
	"github.com/tair/pharmacy-backend/internal/user"
	"github.com/tair/pharmacy-backend/kafka"
	"github.com/tair/pharmacy-backend/pkg/auth"
	"github.com/tair/pharmacy-backend/pkg/database"
	"github.com/tair/pharmacy-backend/pkg/logger"
	"github.com/tair/pharmacy-backend/pkg/middleware"
	"github.com/tair/pharmacy-backend/pkg/tracing"
)

// routeRegistrar is implemented by every module's HTTP handler
type routeRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

func main() {
	cfg := config.Load()

	logger.Init(cfg.App.ServiceName, cfg.App.IsDevelopment())
	logger.SetLevel(cfg.App.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.App.ServiceName).
		Str("environment", cfg.App.Environment).
		Str("log_level", cfg.App.LogLevel).
		Msg("Starting pharmacy API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.App.ServiceName,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	dbConfig := database.Config{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	reportDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open reporting connection")
	}
	defer reportDB.Close()

	rdb := connectRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	reg := prometheus.DefaultRegisterer
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	sms, err := notification.InitializeComponents(db, cfg.SMS, reg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize notification components")
	}

	// Sales reach the notifier through kafka when it is enabled, otherwise
	// through the in-process dispatcher
	var hook domain.SaleCommittedHook
	var notifications *dispatcher.Dispatcher
	if cfg.Kafka.Enabled {
		publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer publisher.Close()
		hook = publisher
	} else {
		notifications = dispatcher.New(sms.Notifier, cfg.SMS.QueueSize, cfg.SMS.Workers)
		notifications.Start()
		hook = notifications
	}

	inventoryHandler, err := inventory.InitializeHTTPHandler(db, rdb, cfg.Redis, hook, reg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}
	userHandler, err := user.InitializeHTTPHandler(db, tokens, reg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}
	customerHandler, err := customer.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize customer handler")
	}
	expenseHandler, err := expense.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize expense handler")
	}
	settingsHandler, err := settings.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize settings handler")
	}
	reportHandler, err := report.InitializeHTTPHandler(reportDB)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize report handler")
	}

	router := mux.NewRouter()
	mwConfig := middleware.DefaultConfig(tokens, middleware.NewMetrics(reg), cfg.App.AllowedOrigins)
	if cfg.App.RequestTimeout > 0 {
		mwConfig.TimeoutDuration = cfg.App.RequestTimeout
	}
	middleware.Register(router, mwConfig)

	for _, h := range []routeRegistrar{
		userHandler,
		inventoryHandler,
		catalog.NewHTTPHandler(db),
		customerHandler,
		expenseHandler,
		settingsHandler,
		sms.HTTP,
		reportHandler,
	} {
		h.RegisterRoutes(router)
	}

	inventoryHTTP.RegisterHealthCheck(router, sqlDB)
	inventoryHTTP.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:              ":" + cfg.App.HTTPPort,
		Handler:           middleware.CORS(mwConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Logger.Info().
			Str("port", cfg.App.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Bool("kafka", cfg.Kafka.Enabled).
			Bool("redis", rdb != nil).
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Logger.Error().Err(err).Msg("Server stopped with error")
	}

	if notifications != nil {
		notifications.Stop()
	}
	logger.Logger.Info().Msg("Server stopped")
}

// connectRedis returns nil when redis is disabled or unreachable; lookups
// then go uncached and item locks fall back to row locks only
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	opts, err := cfg.Options()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Invalid Redis configuration, continuing without cache")
		return nil
	}
	client, err := database.NewRedisClient(ctx, opts)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		return nil
	}
	return client
}
