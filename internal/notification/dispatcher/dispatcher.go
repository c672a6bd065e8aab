// Package dispatcher runs sale notifications off the request path.
package dispatcher

import (
	"context"
	"sync"

	inventory "github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/logger"
)

// Handler processes one committed sale
type Handler interface {
	Notify(ctx context.Context, event inventory.SaleCommitted) error
}

type job struct {
	ctx   context.Context
	event inventory.SaleCommitted
}

// Dispatcher is a bounded queue drained by a fixed set of workers. It
// implements the inventory SaleCommittedHook: enqueueing never blocks and
// a full queue drops the event.
type Dispatcher struct {
	handler Handler
	queue   chan job
	workers int
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New creates a dispatcher; call Start before use
func New(handler Handler, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		handler: handler,
		queue:   make(chan job, queueSize),
		workers: workers,
	}
}

// Start launches the workers
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	logger.Logger.Info().Int("workers", d.workers).Int("queue_size", cap(d.queue)).Msg("Notification dispatcher started")
}

// AfterSaleCommitted enqueues the event. The request context's values are
// kept for log and trace correlation, its cancellation is not.
func (d *Dispatcher) AfterSaleCommitted(ctx context.Context, event inventory.SaleCommitted) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn(ctx).Uint("sale_id", event.SaleID).Msg("Dispatcher stopped, notification dropped")
		return
	}

	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		logger.Warn(ctx).Uint("sale_id", event.SaleID).Msg("Notification queue full, event dropped")
	}
}

// Stop closes the queue and waits for queued events to finish
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	logger.Logger.Info().Msg("Notification dispatcher stopped")
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.queue {
		d.process(j)
	}
}

func (d *Dispatcher) process(j job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(j.ctx).Interface("panic", r).Uint("sale_id", j.event.SaleID).Msg("Notification handler panicked")
		}
	}()
	if err := d.handler.Notify(j.ctx, j.event); err != nil {
		logger.Warn(j.ctx).Err(err).Uint("sale_id", j.event.SaleID).Msg("Sale notification failed")
	}
}
