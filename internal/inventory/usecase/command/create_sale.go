package command

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/money"
)

// SaleLineInput is a requested item quantity. A nil UnitPrice sells at
// the item's current price.
type SaleLineInput struct {
	ItemID    uint
	Qty       int
	UnitPrice *decimal.Decimal
}

// CreateSaleCommand represents a point-of-sale checkout
type CreateSaleCommand struct {
	CustomerID     *uint
	PaymentTypeID  *uint
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	PaidAmount     *decimal.Decimal
	Notes          *string
	CreatedBy      *uint
	Lines          []SaleLineInput
}

// SaleResult is the created sale with its computed totals
type SaleResult struct {
	ID             uint            `json:"id"`
	CustomerID     *uint           `json:"customer_id"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	LineCount      int             `json:"line_count"`
}

// CreateSaleHandler consumes stock in FEFO order and records the sale
type CreateSaleHandler struct {
	scope domain.TransactionScope
	cache domain.LookupCache
	hook  domain.SaleCommittedHook
}

// NewCreateSaleHandler creates a new create sale handler
func NewCreateSaleHandler(scope domain.TransactionScope, cache domain.LookupCache, hook domain.SaleCommittedHook) *CreateSaleHandler {
	return &CreateSaleHandler{scope: scope, cache: cache, hook: hook}
}

// Handle executes the create sale command
func (h *CreateSaleHandler) Handle(ctx context.Context, cmd CreateSaleCommand) (*SaleResult, error) {
	if err := validateSale(cmd); err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		SaleDate:       time.Now(),
		CustomerID:     cmd.CustomerID,
		TaxAmount:      money.Round(cmd.TaxAmount),
		DiscountAmount: money.Round(cmd.DiscountAmount),
		Notes:          cmd.Notes,
		CreatedBy:      cmd.CreatedBy,
	}

	err := h.scope.Execute(ctx, func(tx domain.Store) error {
		if err := lockItemBatches(ctx, tx, cmd.Lines); err != nil {
			return err
		}

		ledger := domain.NewLedger(tx)
		itemIDs := make([]uint, 0, len(cmd.Lines))
		subTotal := decimal.Zero

		for _, line := range cmd.Lines {
			item, err := tx.Items().FindByID(ctx, line.ItemID)
			if err != nil {
				if apperror.Is(err, apperror.KindNotFound) {
					return apperror.ForeignKey("Invalid item_id")
				}
				return err
			}
			price := item.UnitPrice
			if line.UnitPrice != nil {
				price = money.Round(*line.UnitPrice)
			}

			batches, err := tx.Batches().LockAvailable(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("failed to lock batches: %w", err)
			}
			plan, err := domain.PlanConsumption(item.ID, batches, line.Qty)
			if err != nil {
				return err
			}

			for _, alloc := range plan {
				if err := ledger.Decrement(ctx, alloc.BatchID, alloc.Qty); err != nil {
					return err
				}
				batchID := alloc.BatchID
				lineTotal := money.LineTotal(alloc.Qty, price)
				subTotal = subTotal.Add(lineTotal)
				sale.Items = append(sale.Items, domain.SaleItem{
					ItemID:    item.ID,
					BatchID:   &batchID,
					Qty:       alloc.Qty,
					UnitPrice: price,
					LineTotal: lineTotal,
				})
				sale.Allocations = append(sale.Allocations, domain.SaleBatch{
					ItemID:  item.ID,
					BatchID: alloc.BatchID,
					Qty:     alloc.Qty,
				})
			}
			itemIDs = append(itemIDs, item.ID)
		}

		sale.SubTotal = subTotal
		sale.TotalAmount = subTotal.Add(sale.TaxAmount).Sub(sale.DiscountAmount)
		if money.IsNegative(sale.TotalAmount) {
			return apperror.Validation("total_amount cannot be negative")
		}

		if cmd.PaymentTypeID != nil {
			amount := sale.TotalAmount
			if cmd.PaidAmount != nil {
				amount = money.Round(*cmd.PaidAmount)
			}
			sale.Payments = append(sale.Payments, domain.SalePayment{PaymentTypeID: *cmd.PaymentTypeID, Amount: amount})
		}

		if err := tx.Sales().Create(ctx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		return domain.NewAggregator(tx).Recalculate(ctx, itemIDs...)
	})
	if err != nil {
		return nil, err
	}

	h.cache.Invalidate(ctx)
	sold := soldItems(cmd.Lines)
	h.hook.AfterSaleCommitted(ctx, domain.SaleCommitted{SaleID: sale.ID, CustomerID: sale.CustomerID, Items: sold})

	return &SaleResult{
		ID:             sale.ID,
		CustomerID:     sale.CustomerID,
		SubTotal:       sale.SubTotal,
		TaxAmount:      sale.TaxAmount,
		DiscountAmount: sale.DiscountAmount,
		TotalAmount:    sale.TotalAmount,
		LineCount:      len(sale.Items),
	}, nil
}

// lockItemBatches takes the batch row locks of every sold item in
// ascending item id order
func lockItemBatches(ctx context.Context, tx domain.Store, lines []SaleLineInput) error {
	ids := make([]uint, 0, len(lines))
	seen := map[uint]bool{}
	for _, line := range lines {
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			ids = append(ids, line.ItemID)
		}
	}
	slices.Sort(ids)

	for _, id := range ids {
		if _, err := tx.Batches().LockAvailable(ctx, id); err != nil {
			return fmt.Errorf("failed to lock batches: %w", err)
		}
	}
	return nil
}

// soldItems sums quantities per item, keeping first-seen order
func soldItems(lines []SaleLineInput) []domain.SoldItem {
	index := map[uint]int{}
	var out []domain.SoldItem
	for _, line := range lines {
		if i, ok := index[line.ItemID]; ok {
			out[i].Qty += line.Qty
			continue
		}
		index[line.ItemID] = len(out)
		out = append(out, domain.SoldItem{ItemID: line.ItemID, Qty: line.Qty})
	}
	return out
}

func validateSale(cmd CreateSaleCommand) error {
	if len(cmd.Lines) == 0 {
		return apperror.Validation("at least one line is required")
	}
	if money.IsNegative(cmd.TaxAmount) {
		return apperror.Validation("tax_amount must be >= 0")
	}
	if money.IsNegative(cmd.DiscountAmount) {
		return apperror.Validation("discount_amount must be >= 0")
	}
	if cmd.PaidAmount != nil && money.IsNegative(*cmd.PaidAmount) {
		return apperror.Validation("paid_amount must be >= 0")
	}
	for i, line := range cmd.Lines {
		switch {
		case line.ItemID == 0:
			return apperror.Validation("lines[%d].item_id is required", i)
		case line.Qty <= 0:
			return apperror.Validation("lines[%d].qty must be a positive integer", i)
		case line.UnitPrice != nil && money.IsNegative(*line.UnitPrice):
			return apperror.Validation("lines[%d].unit_price must be >= 0", i)
		}
	}
	return nil
}
