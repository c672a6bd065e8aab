package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/calendar"
)

const PurchaseStatusPosted = "POSTED"

// Purchase is an immutable goods receipt header
type Purchase struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	SupplierID   uint            `json:"supplier_id" gorm:"not null"`
	InvoiceNo    *string         `json:"invoice_no"`
	PurchaseDate calendar.Date   `json:"purchase_date" gorm:"type:date"`
	SubTotal     decimal.Decimal `json:"sub_total" gorm:"type:numeric(12,2)"`
	TaxAmount    decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2)"`
	Status       string          `json:"status"`
	Notes        *string         `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
	Lines        []PurchaseLine  `json:"-" gorm:"-"`
}

// TableName specifies the table name
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseLine records one received batch
type PurchaseLine struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	PurchaseID uint            `json:"purchase_id"`
	ItemID     uint            `json:"item_id"`
	BatchNo    string          `json:"batch_no"`
	ExpiryDate *calendar.Date  `json:"expiry_date" gorm:"type:date"`
	Qty        int             `json:"qty"`
	UnitCost   decimal.Decimal `json:"unit_cost" gorm:"type:numeric(12,2)"`
	LineTotal  decimal.Decimal `json:"line_total" gorm:"type:numeric(12,2)"`
}

// TableName specifies the table name
func (PurchaseLine) TableName() string {
	return "purchase_items"
}

// PurchaseSummary is a list row
type PurchaseSummary struct {
	ID           uint            `json:"id"`
	SupplierID   uint            `json:"supplier_id"`
	SupplierName *string         `json:"supplier_name"`
	InvoiceNo    *string         `json:"invoice_no"`
	PurchaseDate calendar.Date   `json:"purchase_date"`
	SubTotal     decimal.Decimal `json:"sub_total"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
}

// PurchaseLineView is a line joined with its item
type PurchaseLineView struct {
	PurchaseLine
	SKU      string `json:"sku"`
	ItemName string `json:"item_name"`
}

// PurchaseDetail is the header plus lines
type PurchaseDetail struct {
	Header PurchaseSummary    `json:"header"`
	Lines  []PurchaseLineView `json:"lines"`
}
