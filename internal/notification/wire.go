//go:build wireinject
// +build wireinject

package notification

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/config"
)

// InitializeComponents initializes the SMS handler and notifier
func InitializeComponents(db *gorm.DB, cfg config.SMSConfig, reg prometheus.Registerer) (*Components, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
	)
	return nil, nil
}
