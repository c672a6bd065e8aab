package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/internal/gateway"
	"github.com/tair/pharmacy-backend/pkg/database"
	"github.com/tair/pharmacy-backend/pkg/logger"
	"github.com/tair/pharmacy-backend/pkg/tracing"
)

func main() {
	cfg := config.Load()

	serviceName := "pharmacy-gateway"
	logger.Init(serviceName, cfg.App.IsDevelopment())
	logger.SetLevel(cfg.App.LogLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Strs("upstreams", cfg.Gateway.UpstreamURLs).
		Msg("Starting API Gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    serviceName,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tracing.Shutdown(shutdownCtx, tp)
		}()
	}

	opts := gateway.Options{AllowedOrigins: strings.Join(cfg.App.AllowedOrigins, ",")}
	if redisOpts, err := cfg.Redis.Options(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Invalid Redis configuration")
	} else if rdb, err := database.NewRedisClient(ctx, redisOpts); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to connect to Redis - rate limiting will be disabled")
	} else {
		defer rdb.Close()
		opts.Counter = gateway.NewRedisWindowCounter(rdb)
	}

	app := gateway.New(cfg.Gateway, opts)

	go func() {
		if err := app.Listen(":" + cfg.Gateway.Port); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start gateway")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down API Gateway...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Logger.Error().Err(err).Msg("Gateway forced to shutdown")
	}
	logger.Logger.Info().Msg("API Gateway stopped")
}
