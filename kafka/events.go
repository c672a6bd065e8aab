package kafka

import (
	"time"

	inventory "github.com/tair/pharmacy-backend/internal/inventory/domain"
)

// SaleCommittedEvent is published once a sale transaction has committed
type SaleCommittedEvent struct {
	EventID    string     `json:"event_id"`
	EventType  string     `json:"event_type"`
	SaleID     uint       `json:"sale_id"`
	CustomerID *uint      `json:"customer_id"`
	Items      []SoldItem `json:"items"`
	Timestamp  time.Time  `json:"timestamp"`
}

// SoldItem is an item quantity of the sale
type SoldItem struct {
	ItemID uint `json:"item_id"`
	Qty    int  `json:"qty"`
}

// Event types
const (
	EventTypeSaleCommitted = "sale.committed"
)

// Kafka topics
const (
	TopicSaleCommitted = "sale-committed"
)

// NewSaleCommittedEvent converts the inventory signal into its wire form
func NewSaleCommittedEvent(e inventory.SaleCommitted) SaleCommittedEvent {
	items := make([]SoldItem, len(e.Items))
	for i, it := range e.Items {
		items[i] = SoldItem{ItemID: it.ItemID, Qty: it.Qty}
	}
	return SaleCommittedEvent{SaleID: e.SaleID, CustomerID: e.CustomerID, Items: items}
}

// Domain converts the event back into the inventory signal
func (e SaleCommittedEvent) Domain() inventory.SaleCommitted {
	items := make([]inventory.SoldItem, len(e.Items))
	for i, it := range e.Items {
		items[i] = inventory.SoldItem{ItemID: it.ItemID, Qty: it.Qty}
	}
	return inventory.SaleCommitted{SaleID: e.SaleID, CustomerID: e.CustomerID, Items: items}
}
