package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/config"
	inventory "github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

type sent struct {
	to       string
	template string
	text     string
}

type fakeSender struct {
	sent   []sent
	failTo string
}

func (s *fakeSender) SendNamed(_ context.Context, to, name, body string, params map[string]string) (*domain.OutboxMessage, error) {
	if to == s.failTo {
		return nil, errors.New("outbox unavailable")
	}
	s.sent = append(s.sent, sent{to: to, template: name, text: domain.Render(body, params)})
	return &domain.OutboxMessage{ToNumber: to}, nil
}

type fakeLookup struct {
	customers map[uint]domain.Customer
	levels    []domain.StockLevel
	asked     []uint
}

func (l *fakeLookup) SaleTotal(context.Context, uint) (decimal.Decimal, error) {
	return decimal.RequireFromString("62.5"), nil
}

func (l *fakeLookup) Customer(_ context.Context, id uint) (*domain.Customer, error) {
	c, ok := l.customers[id]
	if !ok {
		return nil, apperror.NotFound("Customer not found")
	}
	return &c, nil
}

func (l *fakeLookup) StockLevels(_ context.Context, ids []uint) ([]domain.StockLevel, error) {
	l.asked = ids
	return l.levels, nil
}

func ptr[T any](v T) *T { return &v }

func TestNotifyOrderReadyAndLowStock(t *testing.T) {
	sender := &fakeSender{}
	lookup := &fakeLookup{
		customers: map[uint]domain.Customer{1: {Name: "Jane", Phone: ptr("+111")}},
		levels: []domain.StockLevel{
			{ID: 10, SKU: "PARA", Name: "Paracetamol", StockQty: 3, MinStock: 5},
			{ID: 11, SKU: "IBU", Name: "Ibuprofen", StockQty: 50, MinStock: 5},
		},
	}
	n := New(sender, lookup, config.SMSConfig{
		OrderReadyEnabled: true,
		LowStockEnabled:   true,
		LowStockTo:        []string{"+900", "+901"},
	})

	err := n.Notify(context.Background(), inventory.SaleCommitted{
		SaleID:     7,
		CustomerID: ptr(uint(1)),
		Items:      []inventory.SoldItem{{ItemID: 10, Qty: 2}, {ItemID: 11, Qty: 1}, {ItemID: 10, Qty: 1}},
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(lookup.asked) != 2 {
		t.Errorf("stock lookup ids = %v, want deduplicated", lookup.asked)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("sent = %+v, want 1 order-ready and 2 low-stock", sender.sent)
	}
	if got := sender.sent[0]; got.to != "+111" || got.text != "Hi Jane, your order 7 totaling 62.50 is ready. Thank you." {
		t.Errorf("order ready = %+v", got)
	}
	if got := sender.sent[1]; got.template != domain.LowStockTemplate || got.text != "Low stock: PARA Paracetamol now 3 (min 5)." {
		t.Errorf("low stock = %+v", got)
	}
}

func TestNotifySkipsWhenDisabledOrNoPhone(t *testing.T) {
	sender := &fakeSender{}
	lookup := &fakeLookup{
		customers: map[uint]domain.Customer{1: {Name: "No Phone"}},
		levels:    []domain.StockLevel{{ID: 10, StockQty: 0, MinStock: 1}},
	}

	n := New(sender, lookup, config.SMSConfig{OrderReadyEnabled: true, LowStockEnabled: false, LowStockTo: []string{"+900"}})
	events := []inventory.SaleCommitted{
		{SaleID: 1, CustomerID: ptr(uint(1)), Items: []inventory.SoldItem{{ItemID: 10, Qty: 1}}},
		{SaleID: 2, CustomerID: ptr(uint(99))},
		{SaleID: 3},
	}
	for _, e := range events {
		if err := n.Notify(context.Background(), e); err != nil {
			t.Errorf("Notify(%d): %v", e.SaleID, err)
		}
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent = %+v, want nothing", sender.sent)
	}
}

func TestNotifyJoinsFailures(t *testing.T) {
	sender := &fakeSender{failTo: "+900"}
	lookup := &fakeLookup{levels: []domain.StockLevel{{ID: 10, StockQty: 0, MinStock: 1}}}
	n := New(sender, lookup, config.SMSConfig{LowStockEnabled: true, LowStockTo: []string{"+900", "+901"}})

	err := n.Notify(context.Background(), inventory.SaleCommitted{SaleID: 1, Items: []inventory.SoldItem{{ItemID: 10, Qty: 1}}})
	if err == nil {
		t.Fatal("expected error from failed recipient")
	}
	if len(sender.sent) != 1 || sender.sent[0].to != "+901" {
		t.Errorf("sent = %+v, want the other recipient still notified", sender.sent)
	}
}
