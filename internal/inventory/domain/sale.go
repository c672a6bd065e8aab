package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// Sale is a point-of-sale header
type Sale struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	SaleDate       time.Time       `json:"sale_date"`
	CustomerID     *uint           `json:"customer_id"`
	SubTotal       decimal.Decimal `json:"sub_total" gorm:"type:numeric(12,2)"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2)"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	Notes          *string         `json:"notes"`
	CreatedBy      *uint           `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`

	Items       []SaleItem    `json:"-" gorm:"-"`
	Allocations []SaleBatch   `json:"-" gorm:"-"`
	Payments    []SalePayment `json:"-" gorm:"-"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one priced line. Lines split across batches produce one
// row per batch.
type SaleItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	SaleID    uint            `json:"sale_id"`
	ItemID    uint            `json:"item_id"`
	BatchID   *uint           `json:"batch_id"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	LineTotal decimal.Decimal `json:"line_total" gorm:"type:numeric(12,2)"`
}

// TableName specifies the table name
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleBatch records how much of a batch a sale consumed
type SaleBatch struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	SaleID  uint `json:"sale_id"`
	ItemID  uint `json:"item_id"`
	BatchID uint `json:"batch_id"`
	Qty     int  `json:"qty"`
}

// TableName specifies the table name
func (SaleBatch) TableName() string {
	return "sale_batches"
}

// SalePayment is a tender applied to a sale
type SalePayment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	SaleID        uint            `json:"sale_id"`
	PaymentTypeID uint            `json:"payment_type_id"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
}

// TableName specifies the table name
func (SalePayment) TableName() string {
	return "sale_payments"
}

// SaleHeaderView is a sale with its customer name
type SaleHeaderView struct {
	ID             uint            `json:"id"`
	SaleDate       time.Time       `json:"sale_date"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CustomerID     *uint           `json:"customer_id"`
	CustomerName   *string         `json:"customer_name"`
	Notes          *string         `json:"notes"`
}

// SaleLineView is a sale line joined with its item and batch
type SaleLineView struct {
	ID         uint            `json:"id"`
	ItemID     uint            `json:"item_id"`
	SKU        string          `json:"sku"`
	ItemName   string          `json:"item_name"`
	BatchID    *uint           `json:"batch_id"`
	BatchNo    *string         `json:"batch_no"`
	ExpiryDate *calendar.Date  `json:"expiry_date"`
	Qty        int             `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// SaleDetail is the header plus lines
type SaleDetail struct {
	Header SaleHeaderView `json:"header"`
	Lines  []SaleLineView `json:"lines"`
}

// SoldItem is an item quantity in a committed sale
type SoldItem struct {
	ItemID uint `json:"item_id"`
	Qty    int  `json:"qty"`
}

// SaleCommitted is emitted once a sale transaction has committed
type SaleCommitted struct {
	SaleID     uint       `json:"sale_id"`
	CustomerID *uint      `json:"customer_id"`
	Items      []SoldItem `json:"items"`
}

// SaleCommittedHook is notified after commit. Implementations must not
// block and must not rely on ctx outliving the request; the sale has
// already succeeded.
type SaleCommittedHook interface {
	AfterSaleCommitted(ctx context.Context, event SaleCommitted)
}
