//go:build wireinject
// +build wireinject

package report

import (
	"github.com/google/wire"
	"github.com/jmoiron/sqlx"

	"github.com/tair/pharmacy-backend/internal/report/delivery/http"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *sqlx.DB) (*http.ReportHandler, error) {
	wire.Build(
		HandlerSet,
		http.NewReportHandler,
	)
	return nil, nil
}
