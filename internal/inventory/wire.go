//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/internal/inventory/delivery/http"
	"github.com/tair/pharmacy-backend/internal/inventory/domain"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	rdb *redis.Client,
	redisCfg config.RedisConfig,
	hook domain.SaleCommittedHook,
	reg prometheus.Registerer,
) (*http.InventoryHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewInventoryHandler,
	)
	return nil, nil
}
