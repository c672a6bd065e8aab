// Package provider delivers SMS messages.
package provider

import (
	"time"

	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/internal/notification/domain"
)

// New returns the configured provider wrapped in a circuit breaker
func New(cfg config.SMSConfig) domain.Provider {
	var p domain.Provider = NewConsole()
	if cfg.Provider == "twilio" {
		p = NewTwilio("", cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	}
	return NewBreaker(p, 5, 30*time.Second)
}
