package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// SaleReturn is a return header against one sale
type SaleReturn struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SaleID      uint            `json:"sale_id"`
	ReturnDate  time.Time       `json:"return_date"`
	Reason      *string         `json:"reason"`
	SubTotal    decimal.Decimal `json:"sub_total" gorm:"type:numeric(12,2)"`
	TaxAmount   decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	CreatedAt   time.Time       `json:"created_at"`

	Lines []SaleReturnItem `json:"-" gorm:"-"`
}

// TableName specifies the table name
func (SaleReturn) TableName() string {
	return "sale_returns"
}

// SaleReturnItem is one returned item line
type SaleReturnItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	SaleReturnID uint            `json:"sale_return_id"`
	ItemID       uint            `json:"item_id"`
	Qty          int             `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	LineTotal    decimal.Decimal `json:"line_total" gorm:"type:numeric(12,2)"`
}

// TableName specifies the table name
func (SaleReturnItem) TableName() string {
	return "sale_return_items"
}

// SaleReturnBatch records how much was put back into a batch
type SaleReturnBatch struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	SaleReturnID uint `json:"sale_return_id"`
	SaleID       uint `json:"sale_id"`
	ItemID       uint `json:"item_id"`
	BatchID      uint `json:"batch_id"`
	Qty          int  `json:"qty"`
}

// TableName specifies the table name
func (SaleReturnBatch) TableName() string {
	return "sale_return_batches"
}

// ReturnLineView is a return line joined with its item
type ReturnLineView struct {
	ID        uint            `json:"id"`
	ItemID    uint            `json:"item_id"`
	SKU       string          `json:"sku"`
	ItemName  string          `json:"item_name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ReturnBatchView exposes the put-back allocation of a return
type ReturnBatchView struct {
	ID         uint           `json:"id"`
	ItemID     uint           `json:"item_id"`
	BatchNo    string         `json:"batch_no"`
	ExpiryDate *calendar.Date `json:"expiry_date"`
	Qty        int            `json:"qty"`
}

// ReturnDetail is a return header with lines and batch allocations
type ReturnDetail struct {
	Header  SaleReturn        `json:"header"`
	Lines   []ReturnLineView  `json:"lines"`
	Batches []ReturnBatchView `json:"batches"`
}
