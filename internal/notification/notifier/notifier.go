// Package notifier turns committed sales into order-ready and low-stock
// messages.
package notifier

import (
	"context"
	"errors"
	"strconv"

	"github.com/tair/pharmacy-backend/internal/config"
	inventory "github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

// Sender sends a named template
type Sender interface {
	SendNamed(ctx context.Context, to, name, defaultBody string, params map[string]string) (*domain.OutboxMessage, error)
}

// Notifier reacts to committed sales
type Notifier struct {
	sender Sender
	lookup domain.SaleLookup
	cfg    config.SMSConfig
}

// New creates a notifier
func New(sender Sender, lookup domain.SaleLookup, cfg config.SMSConfig) *Notifier {
	return &Notifier{sender: sender, lookup: lookup, cfg: cfg}
}

// Notify sends the order-ready message and any low-stock alerts. Both run
// even when one of them fails.
func (n *Notifier) Notify(ctx context.Context, event inventory.SaleCommitted) error {
	return errors.Join(n.orderReady(ctx, event), n.lowStock(ctx, event))
}

func (n *Notifier) orderReady(ctx context.Context, event inventory.SaleCommitted) error {
	if !n.cfg.OrderReadyEnabled || event.CustomerID == nil {
		return nil
	}
	customer, err := n.lookup.Customer(ctx, *event.CustomerID)
	if apperror.Is(err, apperror.KindNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if customer.Phone == nil || *customer.Phone == "" {
		return nil
	}

	total, err := n.lookup.SaleTotal(ctx, event.SaleID)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return err
	}
	name := customer.Name
	if name == "" {
		name = "Customer"
	}

	_, err = n.sender.SendNamed(ctx, *customer.Phone, domain.OrderReadyTemplate, domain.OrderReadyDefaultBody, map[string]string{
		"name":    name,
		"sale_id": strconv.FormatUint(uint64(event.SaleID), 10),
		"total":   total.StringFixed(2),
	})
	return err
}

func (n *Notifier) lowStock(ctx context.Context, event inventory.SaleCommitted) error {
	if !n.cfg.LowStockEnabled || len(n.cfg.LowStockTo) == 0 {
		return nil
	}

	seen := make(map[uint]bool, len(event.Items))
	ids := make([]uint, 0, len(event.Items))
	for _, it := range event.Items {
		if it.ItemID != 0 && !seen[it.ItemID] {
			seen[it.ItemID] = true
			ids = append(ids, it.ItemID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	levels, err := n.lookup.StockLevels(ctx, ids)
	if err != nil {
		return err
	}

	var errs []error
	for _, level := range levels {
		if !level.Low() {
			continue
		}
		logger.Info(ctx).
			Uint("item_id", level.ID).
			Int("stock_qty", level.StockQty).
			Int("min_stock", level.MinStock).
			Msg("Item reached minimum stock")
		params := map[string]string{
			"sku":  level.SKU,
			"name": level.Name,
			"qty":  strconv.Itoa(level.StockQty),
			"min":  strconv.Itoa(level.MinStock),
		}
		for _, to := range n.cfg.LowStockTo {
			if _, err := n.sender.SendNamed(ctx, to, domain.LowStockTemplate, domain.LowStockDefaultBody, params); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
