package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/internal/inventory/repository"
	"github.com/tair/pharmacy-backend/internal/inventory/usecase/command"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
	"github.com/tair/pharmacy-backend/pkg/database"
)

// openStore connects to DATABASE_URL, applies the schema and returns a
// fresh supplier id
func openStore(t *testing.T) (*repository.GormStore, uint) {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" || os.Getenv("DATABASE_URL") == "" {
		t.Skip("set INTEGRATION_TESTS=1 and DATABASE_URL to run postgres tests")
	}
	cfg := database.Config{DSN: os.Getenv("DATABASE_URL")}

	sqlxDB, err := database.NewPostgresConnection(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer sqlxDB.Close()
	if err := database.Migrate(context.Background(), sqlxDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := database.NewGormConnection(cfg)
	if err != nil {
		t.Fatalf("gorm connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	var supplierID uint
	if err := db.Raw("INSERT INTO suppliers (name) VALUES (?) RETURNING id", "Integration Supplier").Scan(&supplierID).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	return repository.NewGormStore(db), supplierID
}

func TestPostgresConcurrentSalesNeverOversell(t *testing.T) {
	store, supplierID := openStore(t)
	ctx := context.Background()
	cache := domain.NopLookupCache{}

	item, err := command.NewCreateItemHandler(store, cache).Handle(ctx, command.CreateItemCommand{
		SKU:       "IT-" + uuid.NewString()[:8],
		Name:      "Integration item",
		UnitPrice: decimal.NewFromInt(2),
		CostPrice: decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	early := calendar.NewDate(2030, time.January, 1)
	_, err = command.NewCreatePurchaseHandler(store, cache).Handle(ctx, command.CreatePurchaseCommand{
		SupplierID: supplierID,
		Lines: []command.PurchaseLineInput{
			{ItemID: item.ID, BatchNo: "EARLY", ExpiryDate: &early, Qty: 4, UnitCost: decimal.NewFromInt(1)},
			{ItemID: item.ID, BatchNo: "OPEN", Qty: 6, UnitCost: decimal.NewFromInt(1)},
		},
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	sale := command.NewCreateSaleHandler(store, cache, domain.NopSaleHook{})
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sale.Handle(ctx, command.CreateSaleCommand{
				Lines: []command.SaleLineInput{{ItemID: item.ID, Qty: 3}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apperror.Is(err, apperror.KindInsufficientStock):
				rejected++
			default:
				t.Errorf("sale: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 3 || rejected != 2 {
		t.Fatalf("accepted %d rejected %d, want 3 and 2", ok, rejected)
	}

	batches, err := store.Batches().ListByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	sum := 0
	for _, b := range batches {
		if b.Qty < 0 {
			t.Fatalf("negative batch %s: %d", b.BatchNo, b.Qty)
		}
		if b.BatchNo == "EARLY" && b.Qty != 0 {
			t.Errorf("dated batch should be drained first, qty = %d", b.Qty)
		}
		sum += b.Qty
	}
	reloaded, err := store.Items().FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if sum != 1 || reloaded.StockQty != 1 {
		t.Errorf("stock = %d, batch sum = %d, want 1", reloaded.StockQty, sum)
	}
}

func newIntegrationItem(t *testing.T, store *repository.GormStore, name string) *domain.Item {
	t.Helper()
	item, err := command.NewCreateItemHandler(store, domain.NopLookupCache{}).Handle(context.Background(), command.CreateItemCommand{
		SKU:       "IT-" + uuid.NewString()[:8],
		Name:      name,
		UnitPrice: decimal.NewFromInt(2),
		CostPrice: decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

func TestPostgresBatchAdjustKeepsConcurrentSales(t *testing.T) {
	store, supplierID := openStore(t)
	ctx := context.Background()
	cache := domain.NopLookupCache{}
	item := newIntegrationItem(t, store, "Adjusted item")

	if _, err := command.NewCreatePurchaseHandler(store, cache).Handle(ctx, command.CreatePurchaseCommand{
		SupplierID: supplierID,
		Lines: []command.PurchaseLineInput{
			{ItemID: item.ID, BatchNo: "ONLY", Qty: 20, UnitCost: decimal.NewFromInt(1)},
		},
	}); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	batches, err := store.Batches().ListByItem(ctx, item.ID)
	if err != nil || len(batches) != 1 {
		t.Fatalf("batches = %v, %v", batches, err)
	}
	batchID := batches[0].ID

	sale := command.NewCreateSaleHandler(store, cache, domain.NopSaleHook{})
	adjust := command.NewAdjustBatchHandler(store, cache)
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := sale.Handle(ctx, command.CreateSaleCommand{
				Lines: []command.SaleLineInput{{ItemID: item.ID, Qty: 2}},
			}); err != nil {
				t.Errorf("sale: %v", err)
			}
		}()
		go func(day int) {
			defer wg.Done()
			expiry := calendar.NewDate(2031, time.March, day)
			if _, err := adjust.Handle(ctx, command.AdjustBatchCommand{
				ItemID:  item.ID,
				BatchID: batchID,
				Patch:   domain.BatchPatch{ExpiryDate: &expiry},
			}); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}(i + 1)
	}
	wg.Wait()

	batches, err = store.Batches().ListByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("list batches: %v", err)
	}
	reloaded, err := store.Items().FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if batches[0].Qty != 10 || reloaded.StockQty != 10 {
		t.Errorf("batch qty = %d, stock = %d, want 10", batches[0].Qty, reloaded.StockQty)
	}
}

func TestPostgresCrossedSalesDoNotDeadlock(t *testing.T) {
	store, supplierID := openStore(t)
	ctx := context.Background()
	cache := domain.NopLookupCache{}
	first := newIntegrationItem(t, store, "First item")
	second := newIntegrationItem(t, store, "Second item")

	if _, err := command.NewCreatePurchaseHandler(store, cache).Handle(ctx, command.CreatePurchaseCommand{
		SupplierID: supplierID,
		Lines: []command.PurchaseLineInput{
			{ItemID: first.ID, BatchNo: "F", Qty: 50, UnitCost: decimal.NewFromInt(1)},
			{ItemID: second.ID, BatchNo: "S", Qty: 50, UnitCost: decimal.NewFromInt(1)},
		},
	}); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	sale := command.NewCreateSaleHandler(store, cache, domain.NopSaleHook{})
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		lines := []command.SaleLineInput{{ItemID: first.ID, Qty: 1}, {ItemID: second.ID, Qty: 1}}
		if i%2 == 1 {
			lines[0], lines[1] = lines[1], lines[0]
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sale.Handle(ctx, command.CreateSaleCommand{Lines: lines}); err != nil {
				t.Errorf("sale: %v", err)
			}
		}()
	}
	wg.Wait()

	for _, id := range []uint{first.ID, second.ID} {
		item, err := store.Items().FindByID(ctx, id)
		if err != nil {
			t.Fatalf("reload item: %v", err)
		}
		if item.StockQty != 30 {
			t.Errorf("item %d stock = %d, want 30", id, item.StockQty)
		}
	}
}
