package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/money"
)

// CreateItemCommand represents the command to create a new item. Stock is
// never accepted; it starts at zero and follows the batches.
type CreateItemCommand struct {
	SKU        string
	Name       string
	CategoryID *uint
	BrandID    *uint
	UnitID     *uint
	CostPrice  decimal.Decimal
	UnitPrice  decimal.Decimal
	MinStock   int
	MaxStock   *int
}

// CreateItemHandler handles item creation command
type CreateItemHandler struct {
	store domain.Store
	cache domain.LookupCache
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(store domain.Store, cache domain.LookupCache) *CreateItemHandler {
	return &CreateItemHandler{store: store, cache: cache}
}

// Handle executes the create item command
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.Item, error) {
	item := &domain.Item{
		SKU:        strings.TrimSpace(cmd.SKU),
		Name:       strings.TrimSpace(cmd.Name),
		CategoryID: cmd.CategoryID,
		BrandID:    cmd.BrandID,
		UnitID:     cmd.UnitID,
		CostPrice:  money.Round(cmd.CostPrice),
		UnitPrice:  money.Round(cmd.UnitPrice),
		MinStock:   cmd.MinStock,
		MaxStock:   cmd.MaxStock,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := h.store.Items().Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	h.cache.Invalidate(ctx)
	return item, nil
}

func validateItem(item *domain.Item) error {
	switch {
	case item.SKU == "":
		return apperror.Validation("sku is required")
	case item.Name == "":
		return apperror.Validation("name is required")
	case money.IsNegative(item.CostPrice):
		return apperror.Validation("cost_price must be >= 0")
	case money.IsNegative(item.UnitPrice):
		return apperror.Validation("unit_price must be >= 0")
	case item.MinStock < 0:
		return apperror.Validation("min_stock must be >= 0")
	case item.MaxStock != nil && *item.MaxStock < 0:
		return apperror.Validation("max_stock must be null or >= 0")
	}
	return nil
}
