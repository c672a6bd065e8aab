package report

import (
	"github.com/google/wire"
	"github.com/jmoiron/sqlx"

	"github.com/tair/pharmacy-backend/internal/report/domain"
	"github.com/tair/pharmacy-backend/internal/report/repository"
	"github.com/tair/pharmacy-backend/internal/report/usecase/query"
)

// ProvideStore provides the sqlx report store
func ProvideStore(db *sqlx.DB) domain.Store {
	return repository.NewSQLXStore(db)
}

// Wire sets
var HandlerSet = wire.NewSet(
	ProvideStore,
	query.NewPnLHandler,
	query.NewSalesListHandler,
	query.NewSalesSummaryHandler,
	query.NewReturnsListHandler,
	query.NewReturnsSummaryHandler,
	query.NewReturnDetailHandler,
)
