package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/money"
	"github.com/tair/pharmacy-backend/pkg/nullable"
)

// UpdateItemCommand represents a partial item update. Unset fields are
// left unchanged; a null MaxStock removes the upper bound.
type UpdateItemCommand struct {
	ID         uint
	SKU        *string
	Name       *string
	CategoryID nullable.Field[uint]
	BrandID    nullable.Field[uint]
	UnitID     nullable.Field[uint]
	CostPrice  *decimal.Decimal
	UnitPrice  *decimal.Decimal
	MinStock   *int
	MaxStock   nullable.Field[int]
}

// UpdateItemHandler handles item update command
type UpdateItemHandler struct {
	store domain.Store
	cache domain.LookupCache
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(store domain.Store, cache domain.LookupCache) *UpdateItemHandler {
	return &UpdateItemHandler{store: store, cache: cache}
}

// Handle executes the update item command
func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) (*domain.Item, error) {
	if cmd.ID == 0 {
		return nil, apperror.Validation("invalid item id")
	}

	item, err := h.store.Items().FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.SKU != nil {
		item.SKU = strings.TrimSpace(*cmd.SKU)
	}
	if cmd.Name != nil {
		item.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.CategoryID.Set {
		item.CategoryID = cmd.CategoryID.Ptr()
	}
	if cmd.BrandID.Set {
		item.BrandID = cmd.BrandID.Ptr()
	}
	if cmd.UnitID.Set {
		item.UnitID = cmd.UnitID.Ptr()
	}
	if cmd.CostPrice != nil {
		item.CostPrice = money.Round(*cmd.CostPrice)
	}
	if cmd.UnitPrice != nil {
		item.UnitPrice = money.Round(*cmd.UnitPrice)
	}
	if cmd.MinStock != nil {
		item.MinStock = *cmd.MinStock
	}
	if cmd.MaxStock.Set {
		item.MaxStock = cmd.MaxStock.Ptr()
	}

	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := h.store.Items().Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	h.cache.Invalidate(ctx)
	return item, nil
}
