package domain

import (
	"sort"

	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// Allocation is a quantity taken from or put back into one batch
type Allocation struct {
	BatchID uint
	Qty     int
}

// fefoLess orders soonest expiry first, undated batches last, then by id
func fefoLess(ea, eb *calendar.Date, ida, idb uint) bool {
	switch {
	case ea == nil && eb == nil:
		return ida < idb
	case ea == nil:
		return false
	case eb == nil:
		return true
	case !ea.Equal(*eb):
		return ea.Before(*eb)
	}
	return ida < idb
}

// SortFEFO sorts batches in consumption order
func SortFEFO(batches []Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return fefoLess(batches[i].ExpiryDate, batches[j].ExpiryDate, batches[i].ID, batches[j].ID)
	})
}

// SortReverseFEFO sorts consumed batches in put-back order, the exact
// mirror of consumption: latest expiry first, undated first, highest id
// first.
func SortReverseFEFO(consumed []ConsumedBatch) {
	sort.SliceStable(consumed, func(i, j int) bool {
		return fefoLess(consumed[j].ExpiryDate, consumed[i].ExpiryDate, consumed[j].BatchID, consumed[i].BatchID)
	})
}

// PlanConsumption allocates qty across batches in FEFO order, each batch
// giving min(remaining, batch.Qty). It fails without a partial plan when
// the batches cannot cover qty.
func PlanConsumption(itemID uint, batches []Batch, qty int) ([]Allocation, error) {
	if qty <= 0 {
		return nil, apperror.Validation("qty must be a positive integer")
	}

	ordered := make([]Batch, len(batches))
	copy(ordered, batches)
	SortFEFO(ordered)

	var plan []Allocation
	remaining := qty
	for _, b := range ordered {
		if remaining == 0 {
			break
		}
		if b.Qty <= 0 {
			continue
		}
		take := min(remaining, b.Qty)
		plan = append(plan, Allocation{BatchID: b.ID, Qty: take})
		remaining -= take
	}

	if remaining > 0 {
		return nil, apperror.InsufficientStock(
			"insufficient stock for item %d: requested %d, available %d", itemID, qty, qty-remaining)
	}
	return plan, nil
}

// PlanReversal maps qty back onto the batches a sale consumed, walking
// them in reverse FEFO order and never exceeding what was taken from a
// batch minus what has already been returned to it. The second result
// is the quantity that could not be mapped.
func PlanReversal(consumed []ConsumedBatch, returned map[uint]int, qty int) ([]Allocation, int) {
	totals := make(map[uint]int, len(consumed))
	var merged []ConsumedBatch
	for _, c := range consumed {
		if _, seen := totals[c.BatchID]; !seen {
			merged = append(merged, c)
		}
		totals[c.BatchID] += c.Qty
	}
	for i := range merged {
		merged[i].Qty = totals[merged[i].BatchID]
	}
	SortReverseFEFO(merged)

	var plan []Allocation
	remaining := qty
	for _, c := range merged {
		if remaining == 0 {
			break
		}
		capacity := c.Qty - returned[c.BatchID]
		if capacity <= 0 {
			continue
		}
		put := min(remaining, capacity)
		plan = append(plan, Allocation{BatchID: c.BatchID, Qty: put})
		remaining -= put
	}
	return plan, remaining
}
