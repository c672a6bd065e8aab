package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/logger"
	"github.com/tair/pharmacy-backend/pkg/money"
)

// ReturnLineInput is a returned item quantity
type ReturnLineInput struct {
	ItemID uint
	Qty    int
}

// CreateReturnCommand represents a return against one sale
type CreateReturnCommand struct {
	SaleID    uint
	Reason    *string
	TaxAmount decimal.Decimal
	Lines     []ReturnLineInput
}

// ReturnResult is the created return with its computed totals
type ReturnResult struct {
	ID          uint            `json:"id"`
	SaleID      uint            `json:"sale_id"`
	SubTotal    decimal.Decimal `json:"sub_total"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

// CreateReturnHandler puts returned stock back into the batches the
// sale consumed
type CreateReturnHandler struct {
	scope domain.TransactionScope
	cache domain.LookupCache
}

// NewCreateReturnHandler creates a new create return handler
func NewCreateReturnHandler(scope domain.TransactionScope, cache domain.LookupCache) *CreateReturnHandler {
	return &CreateReturnHandler{scope: scope, cache: cache}
}

// Handle executes the create return command. Validation, pricing, batch
// increments and the stock recalculation are one transaction.
func (h *CreateReturnHandler) Handle(ctx context.Context, cmd CreateReturnCommand) (*ReturnResult, error) {
	if cmd.SaleID == 0 {
		return nil, apperror.Validation("invalid sale id")
	}
	if money.IsNegative(cmd.TaxAmount) {
		return nil, apperror.Validation("tax_amount must be >= 0")
	}
	lines, err := mergeReturnLines(cmd.Lines)
	if err != nil {
		return nil, err
	}

	ret := &domain.SaleReturn{
		SaleID:     cmd.SaleID,
		ReturnDate: time.Now(),
		Reason:     cmd.Reason,
		TaxAmount:  money.Round(cmd.TaxAmount),
	}

	err = h.scope.Execute(ctx, func(tx domain.Store) error {
		if _, err := tx.Sales().FindForUpdate(ctx, cmd.SaleID); err != nil {
			return err
		}

		if err := checkReturnable(ctx, tx, cmd.SaleID, lines); err != nil {
			return err
		}

		subTotal := decimal.Zero
		for _, line := range lines {
			price, err := returnPrice(ctx, tx, cmd.SaleID, line.ItemID)
			if err != nil {
				return err
			}
			lineTotal := money.LineTotal(line.Qty, price)
			subTotal = subTotal.Add(lineTotal)
			ret.Lines = append(ret.Lines, domain.SaleReturnItem{
				ItemID:    line.ItemID,
				Qty:       line.Qty,
				UnitPrice: price,
				LineTotal: lineTotal,
			})
		}
		ret.SubTotal = subTotal
		ret.TotalAmount = subTotal.Add(ret.TaxAmount)

		if err := tx.Returns().Create(ctx, ret); err != nil {
			return fmt.Errorf("failed to create return: %w", err)
		}

		ledger := domain.NewLedger(tx)
		itemIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			if err := h.reverse(ctx, tx, ledger, ret.ID, cmd.SaleID, line); err != nil {
				return err
			}
			itemIDs = append(itemIDs, line.ItemID)
		}
		return domain.NewAggregator(tx).Recalculate(ctx, itemIDs...)
	})
	if err != nil {
		return nil, err
	}
	h.cache.Invalidate(ctx)

	return &ReturnResult{
		ID:          ret.ID,
		SaleID:      ret.SaleID,
		SubTotal:    ret.SubTotal,
		TaxAmount:   ret.TaxAmount,
		TotalAmount: ret.TotalAmount,
		LineCount:   len(ret.Lines),
	}, nil
}

// reverse maps one line back onto the sale's batches, latest expiry first
func (h *CreateReturnHandler) reverse(ctx context.Context, tx domain.Store, ledger *domain.Ledger, returnID, saleID uint, line ReturnLineInput) error {
	consumed, err := tx.Sales().ConsumedBatches(ctx, saleID, line.ItemID)
	if err != nil {
		return fmt.Errorf("failed to load consumed batches: %w", err)
	}
	returned, err := tx.Returns().ReturnedByBatch(ctx, saleID, line.ItemID)
	if err != nil {
		return fmt.Errorf("failed to load returned batches: %w", err)
	}

	plan, remaining := domain.PlanReversal(consumed, returned, line.Qty)
	if remaining > 0 {
		logger.Error(ctx).
			Bool("consistency_violation", true).
			Uint("sale_id", saleID).
			Uint("item_id", line.ItemID).
			Int("unmapped_qty", remaining).
			Msg("return could not be mapped onto consumed batches")
		return apperror.InternalConsistency(
			"return of item %d on sale %d left %d unmapped", line.ItemID, saleID, remaining)
	}

	rows := make([]domain.SaleReturnBatch, 0, len(plan))
	for _, alloc := range plan {
		if err := ledger.Increment(ctx, alloc.BatchID, alloc.Qty); err != nil {
			return err
		}
		rows = append(rows, domain.SaleReturnBatch{
			SaleReturnID: returnID,
			SaleID:       saleID,
			ItemID:       line.ItemID,
			BatchID:      alloc.BatchID,
			Qty:          alloc.Qty,
		})
	}
	if err := tx.Returns().AddBatchAllocations(ctx, rows); err != nil {
		return fmt.Errorf("failed to record return batches: %w", err)
	}
	return nil
}

// checkReturnable rejects any line asking for more than sold minus
// already returned
func checkReturnable(ctx context.Context, tx domain.Store, saleID uint, lines []ReturnLineInput) error {
	sold, err := tx.Sales().SoldQty(ctx, saleID)
	if err != nil {
		return fmt.Errorf("failed to load sold quantities: %w", err)
	}
	returned, err := tx.Returns().ReturnedQty(ctx, saleID)
	if err != nil {
		return fmt.Errorf("failed to load returned quantities: %w", err)
	}

	for _, line := range lines {
		remaining := sold[line.ItemID] - returned[line.ItemID]
		if line.Qty > remaining {
			return apperror.ExceedsRemaining(
				"Return qty for item %d exceeds remaining (%d)", line.ItemID, max(remaining, 0))
		}
	}
	return nil
}

// returnPrice is the sale's price for the item, else the item's current
// price, else zero
func returnPrice(ctx context.Context, tx domain.Store, saleID, itemID uint) (decimal.Decimal, error) {
	price, err := tx.Sales().LatestUnitPrice(ctx, saleID, itemID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load sale price: %w", err)
	}
	if price != nil {
		return *price, nil
	}

	item, err := tx.Items().FindByID(ctx, itemID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return item.UnitPrice, nil
}

func mergeReturnLines(lines []ReturnLineInput) ([]ReturnLineInput, error) {
	if len(lines) == 0 {
		return nil, apperror.Validation("at least one line is required")
	}
	index := map[uint]int{}
	var out []ReturnLineInput
	for i, line := range lines {
		if line.ItemID == 0 {
			return nil, apperror.Validation("lines[%d].item_id is required", i)
		}
		if line.Qty <= 0 {
			return nil, apperror.Validation("lines[%d].qty must be a positive integer", i)
		}
		if j, ok := index[line.ItemID]; ok {
			out[j].Qty += line.Qty
			continue
		}
		index[line.ItemID] = len(out)
		out = append(out, line)
	}
	return out, nil
}
