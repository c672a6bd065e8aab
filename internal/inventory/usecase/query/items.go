package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// Page is a normalised page request
type Page struct {
	Page  int
	Limit int
}

// Offset returns the row offset of the page
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NewPage clamps page to >= 1 and limit to 1..max, using def when unset
func NewPage(page, limit, def, max int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return Page{Page: page, Limit: limit}
}

// ListResult is a page of rows with the total count
type ListResult[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListItemsQuery represents the query to list items
type ListItemsQuery struct {
	Query      string
	CategoryID *uint
	BrandID    *uint
	LowStock   bool
	Page       int
	Limit      int
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	store domain.Store
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(store domain.Store) *ListItemsHandler {
	return &ListItemsHandler{store: store}
}

// Handle executes the list items query
func (h *ListItemsHandler) Handle(ctx context.Context, q ListItemsQuery) (*ListResult[domain.Item], error) {
	page := NewPage(q.Page, q.Limit, 50, 200)
	items, total, err := h.store.Items().List(ctx, domain.ItemFilter{
		Query:      q.Query,
		CategoryID: q.CategoryID,
		BrandID:    q.BrandID,
		LowStock:   q.LowStock,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return &ListResult[domain.Item]{Data: items, Page: page.Page, Limit: page.Limit, Total: total}, nil
}

// GetItemHandler handles get item query
type GetItemHandler struct {
	store domain.Store
}

// NewGetItemHandler creates a new get item handler
func NewGetItemHandler(store domain.Store) *GetItemHandler {
	return &GetItemHandler{store: store}
}

// Handle executes the get item query
func (h *GetItemHandler) Handle(ctx context.Context, id uint) (*domain.Item, error) {
	if id == 0 {
		return nil, apperror.Validation("invalid item id")
	}
	return h.store.Items().FindByID(ctx, id)
}

// LookupItemsHandler serves point-of-sale search, cached by query
type LookupItemsHandler struct {
	store domain.Store
	cache domain.LookupCache
}

// NewLookupItemsHandler creates a new lookup items handler
func NewLookupItemsHandler(store domain.Store, cache domain.LookupCache) *LookupItemsHandler {
	return &LookupItemsHandler{store: store, cache: cache}
}

// Handle executes the lookup query
func (h *LookupItemsHandler) Handle(ctx context.Context, query string, limit int) ([]domain.ItemLookup, error) {
	query = strings.TrimSpace(query)
	limit = NewPage(1, limit, 20, 50).Limit

	if rows, ok := h.cache.Get(ctx, query, limit); ok {
		return rows, nil
	}

	rows, err := h.store.Items().Lookup(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup items: %w", err)
	}
	if rows == nil {
		rows = []domain.ItemLookup{}
	}
	h.cache.Set(ctx, query, limit, rows)
	return rows, nil
}

// ListBatchesHandler lists an item's batches, soonest expiry first
type ListBatchesHandler struct {
	store domain.Store
}

// NewListBatchesHandler creates a new list batches handler
func NewListBatchesHandler(store domain.Store) *ListBatchesHandler {
	return &ListBatchesHandler{store: store}
}

// Handle executes the list batches query
func (h *ListBatchesHandler) Handle(ctx context.Context, itemID uint) ([]domain.Batch, error) {
	if _, err := h.store.Items().FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	batches, err := h.store.Batches().ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	if batches == nil {
		batches = []domain.Batch{}
	}
	return batches, nil
}
