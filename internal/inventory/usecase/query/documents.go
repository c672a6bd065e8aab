package query

import (
	"context"
	"fmt"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
)

// ListPurchasesHandler handles list purchases query
type ListPurchasesHandler struct {
	store domain.Store
}

// NewListPurchasesHandler creates a new list purchases handler
func NewListPurchasesHandler(store domain.Store) *ListPurchasesHandler {
	return &ListPurchasesHandler{store: store}
}

// Handle returns purchases newest first
func (h *ListPurchasesHandler) Handle(ctx context.Context, page, limit int) (*ListResult[domain.PurchaseSummary], error) {
	p := NewPage(page, limit, 50, 200)
	rows, total, err := h.store.Purchases().List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	if rows == nil {
		rows = []domain.PurchaseSummary{}
	}
	return &ListResult[domain.PurchaseSummary]{Data: rows, Page: p.Page, Limit: p.Limit, Total: total}, nil
}

// GetPurchaseHandler handles get purchase query
type GetPurchaseHandler struct {
	store domain.Store
}

// NewGetPurchaseHandler creates a new get purchase handler
func NewGetPurchaseHandler(store domain.Store) *GetPurchaseHandler {
	return &GetPurchaseHandler{store: store}
}

// Handle returns the purchase header and lines
func (h *GetPurchaseHandler) Handle(ctx context.Context, id uint) (*domain.PurchaseDetail, error) {
	return h.store.Purchases().FindDetail(ctx, id)
}

// ListSalesHandler handles list sales query
type ListSalesHandler struct {
	store domain.Store
}

// NewListSalesHandler creates a new list sales handler
func NewListSalesHandler(store domain.Store) *ListSalesHandler {
	return &ListSalesHandler{store: store}
}

// Handle returns sales newest first
func (h *ListSalesHandler) Handle(ctx context.Context, page, limit int) (*ListResult[domain.SaleHeaderView], error) {
	p := NewPage(page, limit, 50, 200)
	rows, total, err := h.store.Sales().List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	if rows == nil {
		rows = []domain.SaleHeaderView{}
	}
	return &ListResult[domain.SaleHeaderView]{Data: rows, Page: p.Page, Limit: p.Limit, Total: total}, nil
}

// GetSaleHandler handles get sale query
type GetSaleHandler struct {
	store domain.Store
}

// NewGetSaleHandler creates a new get sale handler
func NewGetSaleHandler(store domain.Store) *GetSaleHandler {
	return &GetSaleHandler{store: store}
}

// Handle returns the sale header and its per-batch lines
func (h *GetSaleHandler) Handle(ctx context.Context, id uint) (*domain.SaleDetail, error) {
	return h.store.Sales().FindDetail(ctx, id)
}

// ListReturnsHandler lists the returns recorded against a sale
type ListReturnsHandler struct {
	store domain.Store
}

// NewListReturnsHandler creates a new list returns handler
func NewListReturnsHandler(store domain.Store) *ListReturnsHandler {
	return &ListReturnsHandler{store: store}
}

// Handle executes the list returns query
func (h *ListReturnsHandler) Handle(ctx context.Context, saleID uint) ([]domain.SaleReturn, error) {
	if _, err := h.store.Sales().FindByID(ctx, saleID); err != nil {
		return nil, err
	}
	rows, err := h.store.Returns().ListBySale(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}
	if rows == nil {
		rows = []domain.SaleReturn{}
	}
	return rows, nil
}

// GetReturnHandler returns a return with its put-back allocation
type GetReturnHandler struct {
	store domain.Store
}

// NewGetReturnHandler creates a new get return handler
func NewGetReturnHandler(store domain.Store) *GetReturnHandler {
	return &GetReturnHandler{store: store}
}

// Handle executes the get return query
func (h *GetReturnHandler) Handle(ctx context.Context, saleID, returnID uint) (*domain.ReturnDetail, error) {
	return h.store.Returns().FindDetail(ctx, saleID, returnID)
}
