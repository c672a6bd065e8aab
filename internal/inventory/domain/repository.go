package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// ItemRepository defines the contract for item data access
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uint) (*Item, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Item, error)
	List(ctx context.Context, filter ItemFilter) ([]Item, int64, error)
	Lookup(ctx context.Context, query string, limit int) ([]ItemLookup, error)

	// RecalculateStock sets stock_qty to the sum of batch quantities for
	// each id, or 0 when an item has no batches.
	RecalculateStock(ctx context.Context, ids []uint) error
	// RecalculateAllStock re-derives every item and returns how many rows
	// were written.
	RecalculateAllStock(ctx context.Context) (int64, error)
}

// BatchRepository defines the contract for batch ledger storage
type BatchRepository interface {
	// Insert fails with a conflict when (item_id, batch_no) exists.
	Insert(ctx context.Context, batch *Batch) error
	// Upsert adds qty to the existing (item_id, batch_no) row, replacing
	// expiry only when a new one is given, or inserts a new row.
	Upsert(ctx context.Context, itemID uint, batchNo string, expiry *calendar.Date, qty int) (*Batch, error)
	// FindForItem locks the batch row until the transaction ends; Save
	// writes back the whole row.
	FindForItem(ctx context.Context, itemID, batchID uint) (*Batch, error)
	Save(ctx context.Context, batch *Batch) error
	ListByItem(ctx context.Context, itemID uint) ([]Batch, error)
	// LockAvailable returns the item's non-empty batches in FEFO order,
	// locked for update until the transaction ends.
	LockAvailable(ctx context.Context, itemID uint) ([]Batch, error)
	// AddQty applies delta to a batch. It fails with insufficient stock
	// when the result would be negative.
	AddQty(ctx context.Context, batchID uint, delta int) error
}

// PurchaseRepository defines the contract for purchase data access
type PurchaseRepository interface {
	// Create persists the header and its Lines.
	Create(ctx context.Context, purchase *Purchase) error
	FindDetail(ctx context.Context, id uint) (*PurchaseDetail, error)
	List(ctx context.Context, limit, offset int) ([]PurchaseSummary, int64, error)
}

// ConsumedBatch is how much of one batch a sale took for an item
type ConsumedBatch struct {
	BatchID    uint
	ExpiryDate *calendar.Date
	Qty        int
}

// SaleRepository defines the contract for sale data access
type SaleRepository interface {
	// Create persists the header, Items, Allocations and Payments.
	Create(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uint) (*Sale, error)
	// FindForUpdate locks the sale row, serialising returns against it.
	FindForUpdate(ctx context.Context, id uint) (*Sale, error)
	FindDetail(ctx context.Context, id uint) (*SaleDetail, error)
	List(ctx context.Context, limit, offset int) ([]SaleHeaderView, int64, error)
	// SoldQty sums the sale's batch allocations per item.
	SoldQty(ctx context.Context, saleID uint) (map[uint]int, error)
	// ConsumedBatches returns the sale's allocations for one item.
	ConsumedBatches(ctx context.Context, saleID, itemID uint) ([]ConsumedBatch, error)
	// LatestUnitPrice returns the price of the most recent sale line for
	// the item, or nil when the sale has none.
	LatestUnitPrice(ctx context.Context, saleID, itemID uint) (*decimal.Decimal, error)
}

// ReturnRepository defines the contract for sale return data access
type ReturnRepository interface {
	// Create persists the header and its Lines.
	Create(ctx context.Context, ret *SaleReturn) error
	AddBatchAllocations(ctx context.Context, rows []SaleReturnBatch) error
	// ReturnedQty sums put-back quantities per item for a sale.
	ReturnedQty(ctx context.Context, saleID uint) (map[uint]int, error)
	// ReturnedByBatch sums put-back quantities per batch for a sale item.
	ReturnedByBatch(ctx context.Context, saleID, itemID uint) (map[uint]int, error)
	ListBySale(ctx context.Context, saleID uint) ([]SaleReturn, error)
	FindDetail(ctx context.Context, saleID, returnID uint) (*ReturnDetail, error)
}

// ReorderRepository defines the contract for reorder data access
type ReorderRepository interface {
	Create(ctx context.Context, reorder *Reorder) error
	Save(ctx context.Context, reorder *Reorder) error
	FindByID(ctx context.Context, id uint) (*Reorder, error)
	// FindPending returns nil without error when the item has no pending
	// reorder.
	FindPending(ctx context.Context, itemID uint) (*Reorder, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status string, limit int) ([]ReorderView, error)
	Stats(ctx context.Context, day time.Time) (*ReorderStats, error)
}

// Store groups the repositories that share one transaction
type Store interface {
	Items() ItemRepository
	Batches() BatchRepository
	Purchases() PurchaseRepository
	Sales() SaleRepository
	Returns() ReturnRepository
	Reorders() ReorderRepository
}

// TransactionScope runs fn with a Store bound to a single transaction.
// Returning an error from fn rolls back every write made through it.
type TransactionScope interface {
	Store
	Execute(ctx context.Context, fn func(tx Store) error) error
}
