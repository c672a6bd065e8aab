package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
	"github.com/tair/pharmacy-backend/pkg/money"
)

// PurchaseLineInput is one received batch
type PurchaseLineInput struct {
	ItemID     uint
	BatchNo    string
	ExpiryDate *calendar.Date
	Qty        int
	UnitCost   decimal.Decimal
}

// CreatePurchaseCommand represents a goods receipt
type CreatePurchaseCommand struct {
	SupplierID   uint
	InvoiceNo    *string
	PurchaseDate *calendar.Date
	TaxAmount    decimal.Decimal
	Notes        *string
	Lines        []PurchaseLineInput
}

// PurchaseResult is the created header with its computed totals
type PurchaseResult struct {
	ID           uint            `json:"id"`
	SupplierID   uint            `json:"supplier_id"`
	InvoiceNo    *string         `json:"invoice_no"`
	PurchaseDate calendar.Date   `json:"purchase_date"`
	SubTotal     decimal.Decimal `json:"sub_total"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
	LineCount    int             `json:"line_count"`
}

// CreatePurchaseHandler records a purchase and receives its batches
type CreatePurchaseHandler struct {
	scope domain.TransactionScope
	cache domain.LookupCache
}

// NewCreatePurchaseHandler creates a new create purchase handler
func NewCreatePurchaseHandler(scope domain.TransactionScope, cache domain.LookupCache) *CreatePurchaseHandler {
	return &CreatePurchaseHandler{scope: scope, cache: cache}
}

// Handle executes the create purchase command. Header, lines, batch
// upserts and the stock recalculation commit together or not at all.
func (h *CreatePurchaseHandler) Handle(ctx context.Context, cmd CreatePurchaseCommand) (*PurchaseResult, error) {
	if err := validatePurchase(cmd); err != nil {
		return nil, err
	}

	purchase := &domain.Purchase{
		SupplierID:   cmd.SupplierID,
		InvoiceNo:    cmd.InvoiceNo,
		PurchaseDate: calendar.Today(),
		TaxAmount:    money.Round(cmd.TaxAmount),
		Status:       domain.PurchaseStatusPosted,
		Notes:        cmd.Notes,
	}
	if cmd.PurchaseDate != nil {
		purchase.PurchaseDate = *cmd.PurchaseDate
	}

	itemIDs := make([]uint, 0, len(cmd.Lines))
	subTotal := decimal.Zero
	for _, in := range cmd.Lines {
		lineTotal := money.LineTotal(in.Qty, in.UnitCost)
		subTotal = subTotal.Add(lineTotal)
		purchase.Lines = append(purchase.Lines, domain.PurchaseLine{
			ItemID:     in.ItemID,
			BatchNo:    strings.TrimSpace(in.BatchNo),
			ExpiryDate: in.ExpiryDate,
			Qty:        in.Qty,
			UnitCost:   money.Round(in.UnitCost),
			LineTotal:  lineTotal,
		})
		itemIDs = append(itemIDs, in.ItemID)
	}
	purchase.SubTotal = subTotal
	purchase.TotalAmount = subTotal.Add(purchase.TaxAmount)

	err := h.scope.Execute(ctx, func(tx domain.Store) error {
		if err := tx.Purchases().Create(ctx, purchase); err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		ledger := domain.NewLedger(tx)
		for _, line := range purchase.Lines {
			if _, err := ledger.UpsertIncoming(ctx, line.ItemID, line.BatchNo, line.ExpiryDate, line.Qty); err != nil {
				return err
			}
		}
		return domain.NewAggregator(tx).Recalculate(ctx, itemIDs...)
	})
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(ctx)

	return &PurchaseResult{
		ID:           purchase.ID,
		SupplierID:   purchase.SupplierID,
		InvoiceNo:    purchase.InvoiceNo,
		PurchaseDate: purchase.PurchaseDate,
		SubTotal:     purchase.SubTotal,
		TaxAmount:    purchase.TaxAmount,
		TotalAmount:  purchase.TotalAmount,
		Status:       purchase.Status,
		LineCount:    len(purchase.Lines),
	}, nil
}

func validatePurchase(cmd CreatePurchaseCommand) error {
	if cmd.SupplierID == 0 {
		return apperror.Validation("supplier_id is required")
	}
	if len(cmd.Lines) == 0 {
		return apperror.Validation("at least one line is required")
	}
	if money.IsNegative(cmd.TaxAmount) {
		return apperror.Validation("tax_amount must be >= 0")
	}
	for i, line := range cmd.Lines {
		switch {
		case line.ItemID == 0:
			return apperror.Validation("lines[%d].item_id is required", i)
		case strings.TrimSpace(line.BatchNo) == "":
			return apperror.Validation("lines[%d].batch_no is required", i)
		case line.Qty < 0:
			return apperror.Validation("lines[%d].qty must be a non-negative integer", i)
		case money.IsNegative(line.UnitCost):
			return apperror.Validation("lines[%d].unit_cost must be >= 0", i)
		}
	}
	return nil
}
