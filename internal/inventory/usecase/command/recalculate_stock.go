package command

import (
	"context"
	"fmt"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
)

// RecalculateStockCommand re-derives stock for the given items, or for
// every item when ItemIDs is empty
type RecalculateStockCommand struct {
	ItemIDs []uint
}

// RecalculateStockHandler repairs cached item stock from batches
type RecalculateStockHandler struct {
	scope domain.TransactionScope
	cache domain.LookupCache
}

// NewRecalculateStockHandler creates a new recalculate stock handler
func NewRecalculateStockHandler(scope domain.TransactionScope, cache domain.LookupCache) *RecalculateStockHandler {
	return &RecalculateStockHandler{scope: scope, cache: cache}
}

// Handle returns how many items were recalculated
func (h *RecalculateStockHandler) Handle(ctx context.Context, cmd RecalculateStockCommand) (int64, error) {
	ids := domain.DistinctIDs(cmd.ItemIDs)

	var n int64
	err := h.scope.Execute(ctx, func(tx domain.Store) error {
		if len(ids) == 0 {
			var err error
			n, err = tx.Items().RecalculateAllStock(ctx)
			if err != nil {
				return fmt.Errorf("failed to recalculate stock: %w", err)
			}
			return nil
		}

		if err := domain.NewAggregator(tx).Recalculate(ctx, ids...); err != nil {
			return err
		}
		n = int64(len(ids))
		return nil
	})
	if err != nil {
		return 0, err
	}
	h.cache.Invalidate(ctx)
	return n, nil
}
