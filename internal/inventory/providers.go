package inventory

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/internal/inventory/delivery/http"
	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/inventory/repository"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/query"
)

// ProvideTransactionScope provides the traced postgres store
func ProvideTransactionScope(db *gorm.DB) domain.TransactionScope {
	return repository.NewTracingStore(repository.NewGormStore(db))
}

// ProvideStore exposes the non-transactional side of the scope
func ProvideStore(scope domain.TransactionScope) domain.Store {
	return scope
}

// ProvideLookupCache uses redis when a client is configured
func ProvideLookupCache(rdb *redis.Client, cfg config.RedisConfig) domain.LookupCache {
	if rdb == nil {
		return domain.NopLookupCache{}
	}
	return repository.NewRedisLookupCache(rdb, cfg.LookupTTL)
}

// ProvideItemLocker uses redis when a client is configured
func ProvideItemLocker(rdb *redis.Client) domain.ItemLocker {
	if rdb == nil {
		return domain.NopItemLocker{}
	}
	return repository.NewRedisItemLocker(rdb)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideTransactionScope,
	ProvideStore,
	ProvideLookupCache,
	ProvideItemLocker,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateItemHandler,
	command.NewUpdateItemHandler,
	command.NewCreateBatchHandler,
	command.NewAdjustBatchHandler,
	command.NewRecalculateStockHandler,
	command.NewCreatePurchaseHandler,
	command.NewCreateSaleHandler,
	command.NewCreateReturnHandler,
	command.NewCreateReorderHandler,
	command.NewUpdateReorderHandler,
	command.NewDeleteReorderHandler,
	wire.Struct(new(http.Commands), "*"),
)

var QueryHandlerSet = wire.NewSet(
	query.NewListItemsHandler,
	query.NewGetItemHandler,
	query.NewLookupItemsHandler,
	query.NewListBatchesHandler,
	query.NewListPurchasesHandler,
	query.NewGetPurchaseHandler,
	query.NewListSalesHandler,
	query.NewGetSaleHandler,
	query.NewListReturnsHandler,
	query.NewGetReturnHandler,
	query.NewListReordersHandler,
	query.NewReorderStatsHandler,
	query.NewSuggestReorderHandler,
	wire.Struct(new(http.Queries), "*"),
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)
