package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

var tracer = otel.Tracer("inventory-repository")

// TracingStore wraps a TransactionScope and records a span for every
// ledger mutation and aggregate recalculation
type TracingStore struct {
	next domain.TransactionScope
}

// NewTracingStore creates a new store with tracing
func NewTracingStore(next domain.TransactionScope) *TracingStore {
	return &TracingStore{next: next}
}

func (s *TracingStore) Items() domain.ItemRepository {
	return &tracedItems{ItemRepository: s.next.Items()}
}

func (s *TracingStore) Batches() domain.BatchRepository {
	return &tracedBatches{BatchRepository: s.next.Batches()}
}

func (s *TracingStore) Purchases() domain.PurchaseRepository { return s.next.Purchases() }
func (s *TracingStore) Sales() domain.SaleRepository         { return s.next.Sales() }
func (s *TracingStore) Returns() domain.ReturnRepository     { return s.next.Returns() }
func (s *TracingStore) Reorders() domain.ReorderRepository   { return s.next.Reorders() }

// Execute with tracing
func (s *TracingStore) Execute(ctx context.Context, fn func(tx domain.Store) error) error {
	ctx, span := tracer.Start(ctx, "repository.Execute")
	defer span.End()

	err := s.next.Execute(ctx, func(tx domain.Store) error {
		return fn(&tracedTx{Store: tx})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

type tracedTx struct {
	domain.Store
}

func (t *tracedTx) Items() domain.ItemRepository {
	return &tracedItems{ItemRepository: t.Store.Items()}
}

func (t *tracedTx) Batches() domain.BatchRepository {
	return &tracedBatches{BatchRepository: t.Store.Batches()}
}

type tracedItems struct {
	domain.ItemRepository
}

// RecalculateStock with tracing
func (r *tracedItems) RecalculateStock(ctx context.Context, ids []uint) error {
	ctx, span := tracer.Start(ctx, "repository.RecalculateStock",
		trace.WithAttributes(attribute.Int("items.count", len(ids))),
	)
	defer span.End()

	err := r.ItemRepository.RecalculateStock(ctx, ids)
	addDBErrorToSpan(span, err)
	return err
}

// RecalculateAllStock with tracing
func (r *tracedItems) RecalculateAllStock(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.RecalculateAllStock")
	defer span.End()

	n, err := r.ItemRepository.RecalculateAllStock(ctx)
	addDBErrorToSpan(span, err)
	span.SetAttributes(attribute.Int64("items.count", n))
	return n, err
}

type tracedBatches struct {
	domain.BatchRepository
}

// Upsert with tracing
func (r *tracedBatches) Upsert(ctx context.Context, itemID uint, batchNo string, expiry *calendar.Date, qty int) (*domain.Batch, error) {
	ctx, span := tracer.Start(ctx, "repository.UpsertBatch",
		trace.WithAttributes(
			attribute.Int("batch.item_id", int(itemID)),
			attribute.String("batch.batch_no", batchNo),
			attribute.Int("batch.qty", qty),
		),
	)
	defer span.End()

	batch, err := r.BatchRepository.Upsert(ctx, itemID, batchNo, expiry, qty)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("batch.id", int(batch.ID)))
	return batch, nil
}

// LockAvailable with tracing
func (r *tracedBatches) LockAvailable(ctx context.Context, itemID uint) ([]domain.Batch, error) {
	ctx, span := tracer.Start(ctx, "repository.LockAvailable",
		trace.WithAttributes(attribute.Int("batch.item_id", int(itemID))),
	)
	defer span.End()

	batches, err := r.BatchRepository.LockAvailable(ctx, itemID)
	addDBErrorToSpan(span, err)
	span.SetAttributes(attribute.Int("result.count", len(batches)))
	return batches, err
}

// AddQty with tracing
func (r *tracedBatches) AddQty(ctx context.Context, batchID uint, delta int) error {
	ctx, span := tracer.Start(ctx, "repository.AddQty",
		trace.WithAttributes(
			attribute.Int("batch.id", int(batchID)),
			attribute.Int("batch.delta", delta),
		),
	)
	defer span.End()

	err := r.BatchRepository.AddQty(ctx, batchID, delta)
	addDBErrorToSpan(span, err)
	return err
}

// Helper function to add database error details to span
func addDBErrorToSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
