package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a sellable product. StockQty is a cache of the sum of the
// item's batch quantities and is only written by the stock aggregator.
type Item struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	SKU        string          `json:"sku" gorm:"column:sku;not null;uniqueIndex"`
	Name       string          `json:"name" gorm:"not null"`
	CategoryID *uint           `json:"category_id"`
	BrandID    *uint           `json:"brand_id"`
	UnitID     *uint           `json:"unit_id"`
	CostPrice  decimal.Decimal `json:"cost_price" gorm:"type:numeric(12,2);not null;default:0"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null;default:0"`
	StockQty   int             `json:"stock_qty" gorm:"not null;default:0"`
	MinStock   int             `json:"min_stock" gorm:"not null;default:0"`
	MaxStock   *int            `json:"max_stock"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Item) TableName() string {
	return "items"
}

// IsLowStock reports whether stock has fallen to the minimum threshold
func (i *Item) IsLowStock() bool {
	return i.StockQty <= i.MinStock
}

// ItemFilter narrows item listings
type ItemFilter struct {
	Query      string
	CategoryID *uint
	BrandID    *uint
	LowStock   bool
	Limit      int
	Offset     int
}

// ItemLookup is the compact row used by point-of-sale search
type ItemLookup struct {
	ID        uint            `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	StockQty  int             `json:"stock_qty"`
	Category  *string         `json:"category"`
	Brand     *string         `json:"brand"`
}
