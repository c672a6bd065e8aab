package query

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

const reorderListLimit = 500

// ListReordersHandler handles list reorders query
type ListReordersHandler struct {
	store domain.Store
}

// NewListReordersHandler creates a new list reorders handler
func NewListReordersHandler(store domain.Store) *ListReordersHandler {
	return &ListReordersHandler{store: store}
}

// Handle lists reorders with the given status; "all" disables the filter
// and an empty status means pending
func (h *ListReordersHandler) Handle(ctx context.Context, status string) ([]domain.ReorderView, error) {
	if status == "" {
		status = domain.ReorderPending
	}
	if status != "all" && !domain.ValidReorderStatus(status) {
		return nil, apperror.Validation("Invalid status")
	}

	rows, err := h.store.Reorders().List(ctx, status, reorderListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reorders: %w", err)
	}
	if rows == nil {
		rows = []domain.ReorderView{}
	}
	return rows, nil
}

// ReorderStatsHandler handles reorder stats query
type ReorderStatsHandler struct {
	store domain.Store
	now   func() time.Time
}

// NewReorderStatsHandler creates a new reorder stats handler
func NewReorderStatsHandler(store domain.Store) *ReorderStatsHandler {
	return &ReorderStatsHandler{store: store, now: time.Now}
}

// Handle returns the pending count and how many were ordered today
func (h *ReorderStatsHandler) Handle(ctx context.Context) (*domain.ReorderStats, error) {
	stats, err := h.store.Reorders().Stats(ctx, h.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get reorder stats: %w", err)
	}
	return stats, nil
}

// Suggestion is the default reorder quantity for an item
type Suggestion struct {
	ItemID       uint `json:"item_id"`
	SuggestedQty int  `json:"suggested_qty"`
}

// SuggestReorderHandler computes the default reorder quantity
type SuggestReorderHandler struct {
	store domain.Store
}

// NewSuggestReorderHandler creates a new suggest reorder handler
func NewSuggestReorderHandler(store domain.Store) *SuggestReorderHandler {
	return &SuggestReorderHandler{store: store}
}

// Handle returns 1 for an unknown item
func (h *SuggestReorderHandler) Handle(ctx context.Context, itemID uint) (*Suggestion, error) {
	item, err := h.store.Items().FindByID(ctx, itemID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return &Suggestion{ItemID: itemID, SuggestedQty: 1}, nil
		}
		return nil, err
	}
	return &Suggestion{
		ItemID:       itemID,
		SuggestedQty: domain.SuggestReorderQty(item.StockQty, item.MinStock, item.MaxStock),
	}, nil
}
