package command

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// CreateBatchCommand represents the command to register a new batch
type CreateBatchCommand struct {
	ItemID     uint
	BatchNo    string
	ExpiryDate *calendar.Date
	Qty        int
}

// CreateBatchHandler inserts a batch and re-derives the item stock in
// the same transaction
type CreateBatchHandler struct {
	scope domain.TransactionScope
	cache domain.LookupCache
}

// NewCreateBatchHandler creates a new create batch handler
func NewCreateBatchHandler(scope domain.TransactionScope, cache domain.LookupCache) *CreateBatchHandler {
	return &CreateBatchHandler{scope: scope, cache: cache}
}

// Handle executes the create batch command
func (h *CreateBatchHandler) Handle(ctx context.Context, cmd CreateBatchCommand) (*domain.Batch, error) {
	var batch *domain.Batch
	err := h.scope.Execute(ctx, func(tx domain.Store) error {
		var err error
		batch, err = domain.NewLedger(tx).Create(ctx, cmd.ItemID, cmd.BatchNo, cmd.ExpiryDate, cmd.Qty)
		if err != nil {
			return err
		}
		return domain.NewAggregator(tx).Recalculate(ctx, cmd.ItemID)
	})
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(ctx)
	return batch, nil
}

// AdjustBatchCommand represents a partial update of one item's batch
type AdjustBatchCommand struct {
	ItemID  uint
	BatchID uint
	Patch   domain.BatchPatch
}

// AdjustBatchHandler applies a batch patch and re-derives the item stock
type AdjustBatchHandler struct {
	scope domain.TransactionScope
	cache domain.LookupCache
}

// NewAdjustBatchHandler creates a new adjust batch handler
func NewAdjustBatchHandler(scope domain.TransactionScope, cache domain.LookupCache) *AdjustBatchHandler {
	return &AdjustBatchHandler{scope: scope, cache: cache}
}

// Handle executes the adjust batch command
func (h *AdjustBatchHandler) Handle(ctx context.Context, cmd AdjustBatchCommand) (*domain.Batch, error) {
	var batch *domain.Batch
	err := h.scope.Execute(ctx, func(tx domain.Store) error {
		var err error
		batch, err = domain.NewLedger(tx).AdjustExisting(ctx, cmd.ItemID, cmd.BatchID, cmd.Patch)
		if err != nil {
			return err
		}
		return domain.NewAggregator(tx).Recalculate(ctx, cmd.ItemID)
	})
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(ctx)
	return batch, nil
}
