package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

const reorderLockScope = "reorder"

// CreateReorderCommand requests replenishment of an item. A nil
// RequestedQty uses the suggested quantity.
type CreateReorderCommand struct {
	ItemID       uint
	RequestedQty *int
	SupplierID   *uint
	Notes        *string
}

// CreateReorderHandler creates a reorder or merges into the pending one
type CreateReorderHandler struct {
	scope  domain.TransactionScope
	locker domain.ItemLocker
}

// NewCreateReorderHandler creates a new create reorder handler
func NewCreateReorderHandler(scope domain.TransactionScope, locker domain.ItemLocker) *CreateReorderHandler {
	return &CreateReorderHandler{scope: scope, locker: locker}
}

// Handle returns the reorder and whether it was newly created
func (h *CreateReorderHandler) Handle(ctx context.Context, cmd CreateReorderCommand) (*domain.Reorder, bool, error) {
	if cmd.ItemID == 0 {
		return nil, false, apperror.Validation("item_id is required")
	}

	item, err := h.scope.Items().FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, false, err
	}

	qty := domain.SuggestReorderQty(item.StockQty, item.MinStock, item.MaxStock)
	if cmd.RequestedQty != nil {
		qty = max(*cmd.RequestedQty, 1)
	}

	unlock, err := h.locker.LockItem(ctx, reorderLockScope, cmd.ItemID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock item: %w", err)
	}
	defer unlock()

	var (
		reorder *domain.Reorder
		created bool
	)
	err = h.scope.Execute(ctx, func(tx domain.Store) error {
		pending, err := tx.Reorders().FindPending(ctx, cmd.ItemID)
		if err != nil {
			return fmt.Errorf("failed to find pending reorder: %w", err)
		}

		if pending != nil {
			pending.RequestedQty += qty
			if cmd.SupplierID != nil {
				pending.SupplierID = cmd.SupplierID
			}
			if cmd.Notes != nil {
				pending.Notes = cmd.Notes
			}
			if err := tx.Reorders().Save(ctx, pending); err != nil {
				return fmt.Errorf("failed to merge reorder: %w", err)
			}
			reorder = pending
			return nil
		}

		reorder = &domain.Reorder{
			ItemID:       cmd.ItemID,
			RequestedQty: qty,
			Status:       domain.ReorderPending,
			SupplierID:   cmd.SupplierID,
			Notes:        cmd.Notes,
		}
		if err := tx.Reorders().Create(ctx, reorder); err != nil {
			return fmt.Errorf("failed to create reorder: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return reorder, created, nil
}

// UpdateReorderCommand represents a partial reorder update
type UpdateReorderCommand struct {
	ID           uint
	RequestedQty *int
	SupplierID   *uint
	Notes        *string
	Status       *string
}

// UpdateReorderHandler handles reorder update command
type UpdateReorderHandler struct {
	store domain.Store
	now   func() time.Time
}

// NewUpdateReorderHandler creates a new update reorder handler
func NewUpdateReorderHandler(store domain.Store) *UpdateReorderHandler {
	return &UpdateReorderHandler{store: store, now: time.Now}
}

// Handle executes the update reorder command
func (h *UpdateReorderHandler) Handle(ctx context.Context, cmd UpdateReorderCommand) (*domain.Reorder, error) {
	if cmd.Status != nil && !domain.ValidReorderStatus(*cmd.Status) {
		return nil, apperror.Validation("Invalid status")
	}
	if cmd.RequestedQty != nil && *cmd.RequestedQty < 1 {
		return nil, apperror.Validation("requested_qty must be >= 1")
	}

	reorder, err := h.store.Reorders().FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.RequestedQty != nil {
		reorder.RequestedQty = *cmd.RequestedQty
	}
	if cmd.SupplierID != nil {
		reorder.SupplierID = cmd.SupplierID
	}
	if cmd.Notes != nil {
		reorder.Notes = cmd.Notes
	}
	if cmd.Status != nil {
		reorder.Status = *cmd.Status
		if reorder.Status == domain.ReorderOrdered {
			now := h.now()
			reorder.OrderedAt = &now
		}
	}

	if err := h.store.Reorders().Save(ctx, reorder); err != nil {
		return nil, fmt.Errorf("failed to update reorder: %w", err)
	}
	return reorder, nil
}

// DeleteReorderHandler handles reorder deletion command
type DeleteReorderHandler struct {
	store domain.Store
}

// NewDeleteReorderHandler creates a new delete reorder handler
func NewDeleteReorderHandler(store domain.Store) *DeleteReorderHandler {
	return &DeleteReorderHandler{store: store}
}

// Handle deletes the reorder with the given id
func (h *DeleteReorderHandler) Handle(ctx context.Context, id uint) error {
	return h.store.Reorders().Delete(ctx, id)
}
