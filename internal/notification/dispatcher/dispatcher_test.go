package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	inventory "github.com/tair/pharmacy-backend/internal/inventory/domain"
)

type recordingHandler struct {
	mu   sync.Mutex
	seen []uint
	fail bool
}

func (h *recordingHandler) Notify(_ context.Context, event inventory.SaleCommitted) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event.SaleID)
	if event.SaleID == 2 {
		panic("boom")
	}
	if h.fail {
		return errors.New("provider down")
	}
	return nil
}

func TestDispatcherDrainsOnStop(t *testing.T) {
	h := &recordingHandler{fail: true}
	d := New(h, 16, 2)
	d.Start()

	ctx, cancel := context.WithCancel(context.Background())
	for id := uint(1); id <= 5; id++ {
		d.AfterSaleCommitted(ctx, inventory.SaleCommitted{SaleID: id})
	}
	cancel()
	d.Stop()

	if len(h.seen) != 5 {
		t.Errorf("handled %v, want all 5 events despite panic and errors", h.seen)
	}

	d.AfterSaleCommitted(context.Background(), inventory.SaleCommitted{SaleID: 6})
	if len(h.seen) != 5 {
		t.Errorf("event after Stop was handled")
	}
	d.Stop()
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := New(&recordingHandler{}, 1, 1)
	for id := uint(1); id <= 3; id++ {
		d.AfterSaleCommitted(context.Background(), inventory.SaleCommitted{SaleID: id})
	}
	if got := len(d.queue); got != 1 {
		t.Errorf("queued = %d, want 1", got)
	}
}
