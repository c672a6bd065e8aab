package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// Ledger applies batch mutations with their validation rules. It is
// bound to one Store, normally the transactional one.
type Ledger struct {
	batches BatchRepository
}

// NewLedger creates a ledger over the store's batches
func NewLedger(store Store) *Ledger {
	return &Ledger{batches: store.Batches()}
}

// UpsertIncoming receives qty into (itemID, batchNo), creating the batch
// when it does not exist
func (l *Ledger) UpsertIncoming(ctx context.Context, itemID uint, batchNo string, expiry *calendar.Date, qty int) (*Batch, error) {
	if itemID == 0 {
		return nil, apperror.Validation("item_id is required")
	}
	batchNo = strings.TrimSpace(batchNo)
	if batchNo == "" {
		return nil, apperror.Validation("batch_no is required")
	}
	if qty < 0 {
		return nil, apperror.Validation("qty must be a non-negative integer")
	}

	batch, err := l.batches.Upsert(ctx, itemID, batchNo, expiry, qty)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert batch: %w", err)
	}
	return batch, nil
}

// Create inserts a new batch; an existing batch_no is a conflict
func (l *Ledger) Create(ctx context.Context, itemID uint, batchNo string, expiry *calendar.Date, qty int) (*Batch, error) {
	batchNo = strings.TrimSpace(batchNo)
	if batchNo == "" {
		return nil, apperror.Validation("batch_no is required")
	}
	if qty < 0 {
		return nil, apperror.Validation("qty must be a non-negative integer")
	}

	batch := &Batch{ItemID: itemID, BatchNo: batchNo, ExpiryDate: expiry, Qty: qty}
	if err := l.batches.Insert(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	return batch, nil
}

// AdjustExisting applies a partial update to a batch scoped to its item
func (l *Ledger) AdjustExisting(ctx context.Context, itemID, batchID uint, patch BatchPatch) (*Batch, error) {
	if patch.IsEmpty() {
		return nil, apperror.Validation("No fields to update")
	}
	if patch.BatchNo != nil && strings.TrimSpace(*patch.BatchNo) == "" {
		return nil, apperror.Validation("batch_no cannot be empty")
	}
	if patch.Qty != nil && *patch.Qty < 0 {
		return nil, apperror.Validation("qty must be a non-negative integer")
	}

	batch, err := l.batches.FindForItem(ctx, itemID, batchID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("Batch not found for item")
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}

	if patch.BatchNo != nil {
		batch.BatchNo = strings.TrimSpace(*patch.BatchNo)
	}
	if patch.Qty != nil {
		batch.Qty = *patch.Qty
	}
	switch {
	case patch.ClearExpiry:
		batch.ExpiryDate = nil
	case patch.ExpiryDate != nil:
		expiry := *patch.ExpiryDate
		batch.ExpiryDate = &expiry
	}

	if err := l.batches.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to update batch: %w", err)
	}
	return batch, nil
}

// Decrement takes qty out of a batch. A batch never goes negative.
func (l *Ledger) Decrement(ctx context.Context, batchID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validation("decrement qty must be positive")
	}
	if err := l.batches.AddQty(ctx, batchID, -qty); err != nil {
		return fmt.Errorf("failed to decrement batch %d: %w", batchID, err)
	}
	return nil
}

// Increment puts qty back into a batch
func (l *Ledger) Increment(ctx context.Context, batchID uint, qty int) error {
	if qty <= 0 {
		return apperror.Validation("increment qty must be positive")
	}
	if err := l.batches.AddQty(ctx, batchID, qty); err != nil {
		return fmt.Errorf("failed to increment batch %d: %w", batchID, err)
	}
	return nil
}

// Aggregator re-derives cached item stock from batches
type Aggregator struct {
	items ItemRepository
}

// NewAggregator creates an aggregator over the store's items
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{items: store.Items()}
}

// Recalculate sets stock_qty = sum(batch.qty) for every distinct id
func (a *Aggregator) Recalculate(ctx context.Context, itemIDs ...uint) error {
	ids := DistinctIDs(itemIDs)
	if len(ids) == 0 {
		return nil
	}
	if err := a.items.RecalculateStock(ctx, ids); err != nil {
		return fmt.Errorf("failed to recalculate stock: %w", err)
	}
	return nil
}

// DistinctIDs returns the sorted non-zero unique ids
func DistinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
