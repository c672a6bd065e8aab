package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
	SMS      SMSConfig
	Gateway  GatewayConfig
}

type AppConfig struct {
	Environment    string
	ServiceName    string
	LogLevel       string
	HTTPPort       string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// IsDevelopment reports whether pretty console logging should be used
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns DATABASE_URL when set, otherwise a keyword/value DSN
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret string
	JWTExpiry time.Duration
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	// LookupTTL bounds how long item lookup results stay cached
	LookupTTL time.Duration
}

// Options prefers REDIS_URL over the host/port pair
func (r RedisConfig) Options() (*redis.Options, error) {
	if r.URL != "" {
		opts, err := redis.ParseURL(r.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     r.Host + ":" + r.Port,
		Password: r.Password,
		DB:       r.DB,
	}, nil
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	GroupID string
}

type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
}

type SMSConfig struct {
	Provider          string
	OrderReadyEnabled bool
	LowStockEnabled   bool
	LowStockTo        []string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFrom        string
	QueueSize         int
	Workers           int
}

type GatewayConfig struct {
	Port            string
	UpstreamURLs    []string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

var (
	once     sync.Once
	instance *Config
)

// Load reads .env (if present) and the environment once
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()
		SetDefaults(v)
		v.AutomaticEnv()

		instance = FromViper(v)
	})

	return instance
}

// SetDefaults registers the default for every supported key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_NAME", "pharmacy-api")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_PORT", "4000")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "pharmacy")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("JWT_SECRET", "devsecret")
	v.SetDefault("JWT_EXPIRES_IN", "8h")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_LOOKUP_TTL", "30s")

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_ID", "pharmacy-notifier")

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("JAEGER_ENDPOINT", "http://localhost:14268/api/traces")

	v.SetDefault("SMS_PROVIDER", "console")
	v.SetDefault("SMS_ORDER_READY_ENABLED", true)
	v.SetDefault("SMS_LOW_STOCK_ENABLED", true)
	v.SetDefault("SMS_LOW_STOCK_TO", "")
	v.SetDefault("TWILIO_ACCOUNT_SID", "")
	v.SetDefault("TWILIO_AUTH_TOKEN", "")
	v.SetDefault("TWILIO_FROM", "")
	v.SetDefault("SMS_QUEUE_SIZE", 256)
	v.SetDefault("SMS_WORKERS", 2)

	v.SetDefault("GATEWAY_PORT", "8000")
	v.SetDefault("API_UPSTREAM_URL", "http://localhost:4000")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Environment:    v.GetString("APP_ENV"),
			ServiceName:    v.GetString("SERVICE_NAME"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			HTTPPort:       v.GetString("HTTP_PORT"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			JWTExpiry: v.GetDuration("JWT_EXPIRES_IN"),
		},
		Redis: RedisConfig{
			Enabled:   v.GetBool("REDIS_ENABLED"),
			URL:       v.GetString("REDIS_URL"),
			Host:      v.GetString("REDIS_HOST"),
			Port:      v.GetString("REDIS_PORT"),
			Password:  v.GetString("REDIS_PASSWORD"),
			DB:        v.GetInt("REDIS_DB"),
			LookupTTL: v.GetDuration("REDIS_LOOKUP_TTL"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("KAFKA_ENABLED"),
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
		Tracing: TracingConfig{
			Enabled:        v.GetBool("TRACING_ENABLED"),
			JaegerEndpoint: v.GetString("JAEGER_ENDPOINT"),
		},
		SMS: SMSConfig{
			Provider:          strings.ToLower(v.GetString("SMS_PROVIDER")),
			OrderReadyEnabled: v.GetBool("SMS_ORDER_READY_ENABLED"),
			LowStockEnabled:   v.GetBool("SMS_LOW_STOCK_ENABLED"),
			LowStockTo:        splitList(v.GetString("SMS_LOW_STOCK_TO")),
			TwilioAccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
			TwilioFrom:        v.GetString("TWILIO_FROM"),
			QueueSize:         v.GetInt("SMS_QUEUE_SIZE"),
			Workers:           v.GetInt("SMS_WORKERS"),
		},
		Gateway: GatewayConfig{
			Port:            v.GetString("GATEWAY_PORT"),
			UpstreamURLs:    splitList(v.GetString("API_UPSTREAM_URL")),
			RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
			RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}
}

// splitList parses a comma separated list, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
