package domain

import (
	"time"
)

// Reorder statuses
const (
	ReorderPending   = "pending"
	ReorderOrdered   = "ordered"
	ReorderCancelled = "cancelled"
)

// ValidReorderStatus reports whether s is a known status
func ValidReorderStatus(s string) bool {
	switch s {
	case ReorderPending, ReorderOrdered, ReorderCancelled:
		return true
	}
	return false
}

// Reorder is a replenishment request. At most one pending reorder exists
// per item.
type Reorder struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ItemID       uint       `json:"item_id"`
	RequestedQty int        `json:"requested_qty"`
	Status       string     `json:"status"`
	SupplierID   *uint      `json:"supplier_id"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
	OrderedAt    *time.Time `json:"ordered_at"`
}

// TableName specifies the table name
func (Reorder) TableName() string {
	return "reorders"
}

// ReorderView is a reorder joined with its item and supplier
type ReorderView struct {
	Reorder
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	StockQty     int     `json:"stock_qty"`
	MinStock     int     `json:"min_stock"`
	MaxStock     *int    `json:"max_stock"`
	SupplierName *string `json:"supplier_name"`
}

// ReorderStats summarises the reorder queue
type ReorderStats struct {
	Pending      int64 `json:"pending"`
	OrderedToday int64 `json:"ordered_today"`
}

// SuggestReorderQty returns the quantity needed to refill an item:
// up to max_stock when set, else to twice min_stock, and never below 1.
func SuggestReorderQty(stock, minStock int, maxStock *int) int {
	target := stock
	switch {
	case maxStock != nil && *maxStock > 0:
		target = *maxStock
	case minStock > 0:
		target = 2 * minStock
	}

	need := target - stock
	if need < 1 {
		return 1
	}
	return need
}
