package http

import (
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/calendar"
	"github.com/tair/pharmacy-backend/pkg/nullable"
)

type createItemRequest struct {
	SKU        string           `json:"sku" validate:"required"`
	Name       string           `json:"name" validate:"required"`
	CategoryID *uint            `json:"category_id"`
	BrandID    *uint            `json:"brand_id"`
	UnitID     *uint            `json:"unit_id"`
	CostPrice  decimal.Decimal  `json:"cost_price" validate:"gte=0"`
	UnitPrice  *decimal.Decimal `json:"unit_price" validate:"required,gte=0"`
	MinStock   int              `json:"min_stock" validate:"gte=0"`
	MaxStock   *int             `json:"max_stock" validate:"omitempty,gte=0"`
}

type updateItemRequest struct {
	SKU        *string               `json:"sku" validate:"omitempty,min=1"`
	Name       *string               `json:"name" validate:"omitempty,min=1"`
	CategoryID nullable.Field[uint]  `json:"category_id"`
	BrandID    nullable.Field[uint]  `json:"brand_id"`
	UnitID     nullable.Field[uint]  `json:"unit_id"`
	CostPrice  *decimal.Decimal      `json:"cost_price" validate:"omitempty,gte=0"`
	UnitPrice  *decimal.Decimal      `json:"unit_price" validate:"omitempty,gte=0"`
	MinStock   *int                  `json:"min_stock" validate:"omitempty,gte=0"`
	MaxStock   nullable.Field[int]   `json:"max_stock"`
}

type recalculateRequest struct {
	ItemIDs []uint `json:"item_ids"`
}

type recalculateResponse struct {
	Recalculated int64 `json:"recalculated"`
}

type createBatchRequest struct {
	BatchNo    string         `json:"batch_no" validate:"required"`
	ExpiryDate *calendar.Date `json:"expiry_date"`
	Qty        *int           `json:"qty" validate:"required,gte=0"`
}

// updateBatchRequest distinguishes absent keys from explicit nulls:
// expiry_date null clears the date, batch_no or qty null is rejected
type updateBatchRequest struct {
	BatchNo    nullable.Field[string]        `json:"batch_no"`
	ExpiryDate nullable.Field[calendar.Date] `json:"expiry_date"`
	Qty        nullable.Field[int]           `json:"qty"`
}

type purchaseLineRequest struct {
	ItemID     uint             `json:"item_id" validate:"required"`
	BatchNo    string           `json:"batch_no" validate:"required"`
	ExpiryDate *calendar.Date   `json:"expiry_date"`
	Qty        *int             `json:"qty" validate:"required,gte=0"`
	UnitCost   *decimal.Decimal `json:"unit_cost" validate:"required,gte=0"`
}

type createPurchaseRequest struct {
	SupplierID   uint                  `json:"supplier_id" validate:"required"`
	InvoiceNo    *string               `json:"invoice_no"`
	PurchaseDate *calendar.Date        `json:"purchase_date"`
	TaxAmount    decimal.Decimal       `json:"tax_amount" validate:"gte=0"`
	Notes        *string               `json:"notes"`
	Lines        []purchaseLineRequest `json:"lines" validate:"min=1,dive"`
}

type saleLineRequest struct {
	ItemID    uint             `json:"item_id" validate:"required"`
	Qty       int              `json:"qty" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
}

// createSaleRequest accepts "items" as an alias of "lines"
type createSaleRequest struct {
	CustomerID     *uint             `json:"customer_id"`
	PaymentTypeID  *uint             `json:"payment_type_id"`
	TaxAmount      decimal.Decimal   `json:"tax_amount" validate:"gte=0"`
	DiscountAmount decimal.Decimal   `json:"discount_amount" validate:"gte=0"`
	PaidAmount     *decimal.Decimal  `json:"paid_amount" validate:"omitempty,gte=0"`
	Notes          *string           `json:"notes"`
	Lines          []saleLineRequest `json:"lines" validate:"omitempty,dive"`
	Items          []saleLineRequest `json:"items" validate:"omitempty,dive"`
}

func (r createSaleRequest) lines() []saleLineRequest {
	if len(r.Lines) > 0 {
		return r.Lines
	}
	return r.Items
}

type returnLineRequest struct {
	ItemID uint `json:"item_id" validate:"required"`
	Qty    int  `json:"qty" validate:"gt=0"`
}

type createReturnRequest struct {
	Reason    *string             `json:"reason"`
	TaxAmount decimal.Decimal     `json:"tax_amount" validate:"gte=0"`
	Lines     []returnLineRequest `json:"lines" validate:"min=1,dive"`
}

type createReorderRequest struct {
	ItemID       uint    `json:"item_id" validate:"required"`
	RequestedQty *int    `json:"requested_qty"`
	SupplierID   *uint   `json:"supplier_id"`
	Notes        *string `json:"notes"`
}

type updateReorderRequest struct {
	RequestedQty *int    `json:"requested_qty"`
	SupplierID   *uint   `json:"supplier_id"`
	Notes        *string `json:"notes"`
	Status       *string `json:"status"`
}
