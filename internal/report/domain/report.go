package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// ListLimit caps the advanced sale and return listings
const ListLimit = 200

// Range is an inclusive span of days; a nil bound is open
type Range struct {
	From *calendar.Date `json:"from"`
	To   *calendar.Date `json:"to"`
}

// SalesTotals sums sale headers
type SalesTotals struct {
	Count         int64           `json:"count" db:"sale_count"`
	SubTotal      decimal.Decimal `json:"sub_total" db:"sub_total"`
	TaxTotal      decimal.Decimal `json:"tax_total" db:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total" db:"discount_total"`
	Total         decimal.Decimal `json:"total" db:"total"`
}

// PnL is the profit and loss statement of a range
type PnL struct {
	Range
	Sales       PnLSales        `json:"sales"`
	COGS        decimal.Decimal `json:"cogs"`
	Expenses    decimal.Decimal `json:"expenses"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	NetProfit   decimal.Decimal `json:"net_profit"`
}

// PnLSales is the sales block of a PnL
type PnLSales struct {
	SubTotal      decimal.Decimal `json:"sub_total"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	SalesTotal    decimal.Decimal `json:"sales_total"`
}

// SaleRow is one sale in the advanced listing
type SaleRow struct {
	ID             uint            `json:"id" db:"id"`
	SaleDate       time.Time       `json:"sale_date" db:"sale_date"`
	CustomerName   *string         `json:"customer_name" db:"customer_name"`
	SubTotal       decimal.Decimal `json:"sub_total" db:"sub_total"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount" db:"paid_amount"`
}

// PaymentTotal is the amount taken by one payment type
type PaymentTotal struct {
	PaymentTypeID uint            `json:"payment_type_id" db:"payment_type_id"`
	Name          string          `json:"name" db:"name"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
}

// SalesSummary is the sales summary of a range
type SalesSummary struct {
	Range
	SalesTotals
	ByPaymentType []PaymentTotal `json:"by_payment_type"`
}

// ReturnRow is one return header; discount is what the refund withheld
type ReturnRow struct {
	ID             uint            `json:"id" db:"id"`
	SaleID         uint            `json:"sale_id" db:"sale_id"`
	ReturnDate     time.Time       `json:"return_date" db:"return_date"`
	SubTotal       decimal.Decimal `json:"sub_total" db:"sub_total"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Reason         *string         `json:"reason" db:"reason"`
}

// ReturnTotals sums return headers
type ReturnTotals struct {
	Count         int64           `json:"count" db:"return_count"`
	SubTotal      decimal.Decimal `json:"sub_total" db:"sub_total"`
	TaxTotal      decimal.Decimal `json:"tax_total" db:"tax_total"`
	DiscountTotal decimal.Decimal `json:"discount_total" db:"discount_total"`
	Total         decimal.Decimal `json:"total" db:"total"`
}

// ReturnsSummary is the returns summary of a range
type ReturnsSummary struct {
	Range
	ReturnTotals
}

// ReturnLine is one returned item
type ReturnLine struct {
	ID        uint            `json:"id" db:"id"`
	ItemID    uint            `json:"item_id" db:"item_id"`
	SKU       string          `json:"sku" db:"sku"`
	ItemName  string          `json:"item_name" db:"item_name"`
	Qty       int             `json:"qty" db:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total" db:"line_total"`
}

// ReturnDetail is a return header with its lines
type ReturnDetail struct {
	Header ReturnRow    `json:"header"`
	Lines  []ReturnLine `json:"lines"`
}

// Store runs the read-only reporting queries
type Store interface {
	SalesTotals(ctx context.Context, r Range) (SalesTotals, error)
	// COGS costs sold quantities at the items' current cost price
	COGS(ctx context.Context, r Range) (decimal.Decimal, error)
	ExpenseTotal(ctx context.Context, r Range) (decimal.Decimal, error)
	PaymentTotals(ctx context.Context, r Range) ([]PaymentTotal, error)
	Sales(ctx context.Context, r Range, paymentTypeID *uint, limit int) ([]SaleRow, error)
	ReturnTotals(ctx context.Context, r Range) (ReturnTotals, error)
	Returns(ctx context.Context, r Range, limit int) ([]ReturnRow, error)
	ReturnHeader(ctx context.Context, id uint) (*ReturnRow, error)
	ReturnLines(ctx context.Context, id uint) ([]ReturnLine, error)
}
