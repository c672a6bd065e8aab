//go:build wireinject
// +build wireinject

package settings

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/settings/delivery/http"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.SettingsHandler, error) {
	wire.Build(
		HandlerSet,
		http.NewSettingsHandler,
	)
	return nil, nil
}
