package command_test

import (
	"testing"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

func TestReorderMergesIntoPending(t *testing.T) {
	f := newFixture(t)
	item, err := f.createItem.Handle(f.ctx, command.CreateItemCommand{SKU: "R", Name: "Reorderable", MinStock: 5, MaxStock: ptr(20)})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	f.receive(t, item.ID, "A", nil, 4)

	create := command.NewCreateReorderHandler(f.store, domain.NopItemLocker{})
	update := command.NewUpdateReorderHandler(f.store)

	first, created, err := create.Handle(f.ctx, command.CreateReorderCommand{ItemID: item.ID})
	if err != nil {
		t.Fatalf("create reorder: %v", err)
	}
	if !created || first.RequestedQty != 16 || first.Status != domain.ReorderPending {
		t.Fatalf("first = %+v created=%v, want new pending reorder of 16", first, created)
	}

	merged, created, err := create.Handle(f.ctx, command.CreateReorderCommand{ItemID: item.ID, RequestedQty: ptr(3), Notes: ptr("urgent")})
	if err != nil {
		t.Fatalf("merge reorder: %v", err)
	}
	if created || merged.ID != first.ID || merged.RequestedQty != 19 || merged.Notes == nil || *merged.Notes != "urgent" {
		t.Fatalf("merged = %+v created=%v, want qty 19 on reorder %d", merged, created, first.ID)
	}

	ordered, err := update.Handle(f.ctx, command.UpdateReorderCommand{ID: first.ID, Status: ptr(domain.ReorderOrdered)})
	if err != nil {
		t.Fatalf("mark ordered: %v", err)
	}
	if ordered.OrderedAt == nil {
		t.Fatalf("ordered_at not set")
	}

	next, created, err := create.Handle(f.ctx, command.CreateReorderCommand{ItemID: item.ID, RequestedQty: ptr(0)})
	if err != nil {
		t.Fatalf("create after ordered: %v", err)
	}
	if !created || next.ID == first.ID || next.RequestedQty != 1 {
		t.Fatalf("next = %+v created=%v, want a fresh reorder of 1", next, created)
	}
}

func TestReorderErrors(t *testing.T) {
	f := newFixture(t)
	item := f.item(t, "I")
	create := command.NewCreateReorderHandler(f.store, domain.NopItemLocker{})
	update := command.NewUpdateReorderHandler(f.store)
	remove := command.NewDeleteReorderHandler(f.store)

	if _, _, err := create.Handle(f.ctx, command.CreateReorderCommand{ItemID: 404}); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("unknown item error = %v, want not found", err)
	}
	if _, _, err := create.Handle(f.ctx, command.CreateReorderCommand{ItemID: item.ID, SupplierID: ptr(uint(9))}); !apperror.Is(err, apperror.KindForeignKey) {
		t.Fatalf("unknown supplier error = %v, want foreign key", err)
	}

	ro, _, err := create.Handle(f.ctx, command.CreateReorderCommand{ItemID: item.ID})
	if err != nil {
		t.Fatalf("create reorder: %v", err)
	}

	if _, err := update.Handle(f.ctx, command.UpdateReorderCommand{ID: ro.ID, Status: ptr("shipped")}); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("invalid status error = %v, want validation", err)
	}
	if _, err := update.Handle(f.ctx, command.UpdateReorderCommand{ID: ro.ID, RequestedQty: ptr(0)}); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("zero qty error = %v, want validation", err)
	}
	if _, err := update.Handle(f.ctx, command.UpdateReorderCommand{ID: 999, Notes: ptr("x")}); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("missing reorder error = %v, want not found", err)
	}

	if err := remove.Handle(f.ctx, ro.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := remove.Handle(f.ctx, ro.ID); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("second delete error = %v, want not found", err)
	}
}
