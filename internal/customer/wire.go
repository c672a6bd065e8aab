//go:build wireinject
// +build wireinject

package customer

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/customer/delivery/http"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.CustomerHandler, error) {
	wire.Build(
		HandlerSet,
		http.NewCustomerHandler,
	)
	return nil, nil
}
