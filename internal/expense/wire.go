//go:build wireinject
// +build wireinject

package expense

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/expense/delivery/http"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.ExpenseHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		http.NewExpenseHandler,
	)
	return nil, nil
}
