package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/tair/pharmacy-backend/pkg/auth"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

// Config holds configuration for middlewares
type Config struct {
	EnableLogging   bool
	EnableTracing   bool
	EnableRecovery  bool
	EnableTimeout   bool
	TimeoutDuration time.Duration
	TracingName     string
	CORSOptions     cors.Options
	Metrics         *Metrics
	Tokens          *auth.TokenManager
	PublicPaths     []string
}

// DefaultConfig returns default middleware configuration
func DefaultConfig(tokens *auth.TokenManager, metrics *Metrics, allowedOrigins []string) *Config {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Config{
		EnableLogging:   true,
		EnableTracing:   true,
		EnableRecovery:  true,
		EnableTimeout:   true,
		TimeoutDuration: 30 * time.Second,
		TracingName:     "pharmacy-http-request",
		CORSOptions: cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{RequestIDHeader},
			AllowCredentials: true,
		},
		Metrics:     metrics,
		Tokens:      tokens,
		PublicPaths: DefaultPublicPaths,
	}
}

// Register registers all configured middlewares to the router
func Register(router *mux.Router, config *Config) {
	logger.Logger.Info().
		Bool("logging", config.EnableLogging).
		Bool("tracing", config.EnableTracing).
		Bool("recovery", config.EnableRecovery).
		Bool("timeout", config.EnableTimeout).
		Bool("auth", config.Tokens != nil).
		Dur("timeout_duration", config.TimeoutDuration).
		Msg("Registering middlewares")

	if config.EnableRecovery {
		router.Use(Recovery())
	}

	router.Use(RequestID())

	if config.EnableLogging {
		router.Use(Logging)
	}

	if config.EnableTracing {
		router.Use(Tracing(config.TracingName))
	}

	if config.Metrics != nil {
		router.Use(config.Metrics.Middleware)
	}

	router.Use(SecurityHeaders())

	if config.Tokens != nil {
		router.Use(Auth(config.Tokens, config.PublicPaths))
	}

	if config.EnableTimeout {
		router.Use(Timeout(config.TimeoutDuration))
	}
}

// CORS wraps the whole router so preflight requests are answered before
// routing
func CORS(config *Config) func(http.Handler) http.Handler {
	return cors.New(config.CORSOptions).Handler
}
