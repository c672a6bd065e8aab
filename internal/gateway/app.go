// Package gateway is the public edge in front of the API: it rate limits
// by client IP and forwards everything else upstream.
package gateway

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

// Options are the parts New needs besides config; a nil Counter disables
// rate limiting
type Options struct {
	Counter        WindowCounter
	AllowedOrigins string
}

// New builds the fiber app
func New(cfg config.GatewayConfig, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Pharmacy Gateway",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(TracingMiddleware())
	app.Use(LoggingMiddleware())

	origins := opts.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		ExposeHeaders: "X-Request-Id, X-Trace-Id, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:        86400,
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	balancer := NewRoundRobin(cfg.UpstreamURLs)
	checker := NewHealthChecker(balancer)

	app.Get("/gateway/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		health := checker.Check(ctx)
		status := fiber.StatusOK
		if health.Status == "unhealthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	})

	if opts.Counter != nil {
		app.Use(NewRateLimiter(opts.Counter, cfg.RateLimitMax, cfg.RateLimitWindow).Middleware())
		logger.Logger.Info().
			Int("max", cfg.RateLimitMax).
			Dur("window", cfg.RateLimitWindow).
			Msg("Rate limiting enabled")
	} else {
		logger.Logger.Warn().Msg("Rate limiting disabled (Redis not available)")
	}

	app.All("/*", NewReverseProxy(balancer).Handler)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":     err.Error(),
		"path":      c.Path(),
		"requestId": c.GetRespHeader(fiber.HeaderXRequestID),
	})
}
