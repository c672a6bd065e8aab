package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg := FromViper(v)

	if cfg.App.HTTPPort != "4000" || !cfg.App.IsDevelopment() {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Auth.JWTExpiry != 8*time.Hour {
		t.Errorf("jwt expiry = %v, want 8h", cfg.Auth.JWTExpiry)
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "localhost:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if cfg.SMS.Provider != "console" || cfg.SMS.LowStockTo != nil {
		t.Errorf("sms = %+v", cfg.SMS)
	}
	if cfg.Gateway.RateLimitWindow != time.Minute || cfg.Gateway.RateLimitMax != 100 {
		t.Errorf("gateway = %+v", cfg.Gateway)
	}
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("SMS_PROVIDER", "Twilio")
	v.Set("SMS_LOW_STOCK_TO", " +15550001, ,+15550002 ")
	v.Set("DATABASE_URL", "postgres://u:p@db/pharmacy")
	cfg := FromViper(v)

	if cfg.SMS.Provider != "twilio" {
		t.Errorf("provider = %q, want lowercased", cfg.SMS.Provider)
	}
	if got := cfg.SMS.LowStockTo; len(got) != 2 || got[0] != "+15550001" || got[1] != "+15550002" {
		t.Errorf("low stock recipients = %v", got)
	}
	if cfg.Database.DSN() != "postgres://u:p@db/pharmacy" {
		t.Errorf("dsn = %q", cfg.Database.DSN())
	}
}

func TestRedisOptions(t *testing.T) {
	opts, err := RedisConfig{Host: "cache", Port: "6380", DB: 2}.Options()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 {
		t.Errorf("opts = %+v", opts)
	}

	opts, err = RedisConfig{URL: "redis://:secret@localhost:6379/1"}.Options()
	if err != nil {
		t.Fatalf("url options: %v", err)
	}
	if opts.Password != "secret" || opts.DB != 1 {
		t.Errorf("url opts = %+v", opts)
	}

	if _, err := (RedisConfig{URL: "http://nope"}).Options(); err == nil {
		t.Error("non-redis scheme should fail")
	}
}
