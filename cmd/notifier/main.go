package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/internal/notification"
	"github.com/tair/pharmacy-backend/kafka"
	"github.com/tair/pharmacy-backend/pkg/database"
	"github.com/tair/pharmacy-backend/pkg/logger"
	"github.com/tair/pharmacy-backend/pkg/tracing"
)

func main() {
	cfg := config.Load()

	serviceName := cfg.App.ServiceName + "-notifier"
	logger.Init(serviceName, cfg.App.IsDevelopment())
	logger.SetLevel(cfg.App.LogLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Strs("brokers", cfg.Kafka.Brokers).
		Str("group_id", cfg.Kafka.GroupID).
		Msg("Starting sale notifier")

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

	db, err := database.NewGormConnection(database.Config{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	sms, err := notification.InitializeComponents(db, cfg.SMS, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize notification components")
	}

	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{kafka.TopicSaleCommitted})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeSaleCommitted, func(ctx context.Context, event kafka.SaleCommittedEvent) error {
		return sms.Notifier.Notify(ctx, event.Domain())
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down notifier...")
}
