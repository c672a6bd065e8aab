// Package memstore provides an in-memory inventory Store for tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// Store is an in-memory inventory store with the same constraint
// behaviour as the postgres schema. Execute works on a copy of the state
// and only publishes it when fn succeeds; transactions are serialised.
type Store struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	seq map[string]uint

	items         map[uint]domain.Item
	batches       map[uint]domain.Batch
	purchases     map[uint]domain.Purchase
	purchaseLines []domain.PurchaseLine
	sales         map[uint]domain.Sale
	saleItems     []domain.SaleItem
	saleBatches   []domain.SaleBatch
	salePayments  []domain.SalePayment
	returns       map[uint]domain.SaleReturn
	returnItems   []domain.SaleReturnItem
	returnBatches []domain.SaleReturnBatch
	reorders      map[uint]domain.Reorder

	suppliers    map[uint]string
	customers    map[uint]string
	paymentTypes map[uint]string
	categories   map[uint]string
	brands       map[uint]string
	units        map[uint]string
}

// New creates an empty store
func New() *Store {
	return &Store{state: &memoryState{
		seq:          map[string]uint{},
		items:        map[uint]domain.Item{},
		batches:      map[uint]domain.Batch{},
		purchases:    map[uint]domain.Purchase{},
		sales:        map[uint]domain.Sale{},
		returns:      map[uint]domain.SaleReturn{},
		reorders:     map[uint]domain.Reorder{},
		suppliers:    map[uint]string{},
		customers:    map[uint]string{},
		paymentTypes: map[uint]string{},
		categories:   map[uint]string{},
		brands:       map[uint]string{},
		units:        map[uint]string{},
	}}
}

// AddSupplier registers a supplier that purchases and reorders may reference
func (s *Store) AddSupplier(id uint, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.suppliers[id] = name
}

// AddCustomer registers a customer that sales may reference
func (s *Store) AddCustomer(id uint, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.customers[id] = name
}

// AddPaymentType registers a payment type that sales may reference
func (s *Store) AddPaymentType(id uint, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.paymentTypes[id] = name
}

// AddCategory registers a category that items may reference
func (s *Store) AddCategory(id uint, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.categories[id] = name
}

func (s *Store) Items() domain.ItemRepository         { return &memItems{s.view()} }
func (s *Store) Batches() domain.BatchRepository      { return &memBatches{s.view()} }
func (s *Store) Purchases() domain.PurchaseRepository { return &memPurchases{s.view()} }
func (s *Store) Sales() domain.SaleRepository         { return &memSales{s.view()} }
func (s *Store) Returns() domain.ReturnRepository     { return &memReturns{s.view()} }
func (s *Store) Reorders() domain.ReorderRepository   { return &memReorders{s.view()} }

// Execute runs fn against a snapshot and commits it when fn returns nil
func (s *Store) Execute(ctx context.Context, fn func(tx domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&memTx{view: &memView{tx: snapshot}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

func (s *Store) view() *memView {
	return &memView{store: s}
}

// memView resolves the state a repository call works on: the transaction
// snapshot when bound to one, otherwise the committed state under lock.
type memView struct {
	store *Store
	tx    *memoryState
}

func (v *memView) with(fn func(st *memoryState) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.state)
}

type memTx struct {
	view *memView
}

func (t *memTx) Items() domain.ItemRepository         { return &memItems{t.view} }
func (t *memTx) Batches() domain.BatchRepository      { return &memBatches{t.view} }
func (t *memTx) Purchases() domain.PurchaseRepository { return &memPurchases{t.view} }
func (t *memTx) Sales() domain.SaleRepository         { return &memSales{t.view} }
func (t *memTx) Returns() domain.ReturnRepository     { return &memReturns{t.view} }
func (t *memTx) Reorders() domain.ReorderRepository   { return &memReorders{t.view} }

func (st *memoryState) next(table string) uint {
	st.seq[table]++
	return st.seq[table]
}

func (st *memoryState) clone() *memoryState {
	c := &memoryState{
		seq:           copyMap(st.seq),
		items:         copyMap(st.items),
		batches:       copyMap(st.batches),
		purchases:     copyMap(st.purchases),
		purchaseLines: append([]domain.PurchaseLine(nil), st.purchaseLines...),
		sales:         copyMap(st.sales),
		saleItems:     append([]domain.SaleItem(nil), st.saleItems...),
		saleBatches:   append([]domain.SaleBatch(nil), st.saleBatches...),
		salePayments:  append([]domain.SalePayment(nil), st.salePayments...),
		returns:       copyMap(st.returns),
		returnItems:   append([]domain.SaleReturnItem(nil), st.returnItems...),
		returnBatches: append([]domain.SaleReturnBatch(nil), st.returnBatches...),
		reorders:      copyMap(st.reorders),
		suppliers:     copyMap(st.suppliers),
		customers:     copyMap(st.customers),
		paymentTypes:  copyMap(st.paymentTypes),
		categories:    copyMap(st.categories),
		brands:        copyMap(st.brands),
		units:         copyMap(st.units),
	}
	return c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func namePtr(m map[uint]string, id *uint) *string {
	if id == nil {
		return nil
	}
	if name, ok := m[*id]; ok {
		return &name
	}
	return nil
}

func pageOf[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// Items

type memItems struct{ v *memView }

func (st *memoryState) checkItemRefs(item *domain.Item) error {
	if item.CategoryID != nil {
		if _, ok := st.categories[*item.CategoryID]; !ok {
			return apperror.ForeignKey("Invalid category_id")
		}
	}
	if item.BrandID != nil {
		if _, ok := st.brands[*item.BrandID]; !ok {
			return apperror.ForeignKey("Invalid brand_id")
		}
	}
	if item.UnitID != nil {
		if _, ok := st.units[*item.UnitID]; !ok {
			return apperror.ForeignKey("Invalid unit_id")
		}
	}
	for id, other := range st.items {
		if id != item.ID && strings.EqualFold(other.SKU, item.SKU) {
			return apperror.Conflict("SKU already exists")
		}
	}
	return nil
}

func (r *memItems) Create(ctx context.Context, item *domain.Item) error {
	return r.v.with(func(st *memoryState) error {
		if err := st.checkItemRefs(item); err != nil {
			return err
		}
		item.ID = st.next("items")
		item.StockQty = 0
		item.CreatedAt = time.Now()
		item.UpdatedAt = item.CreatedAt
		st.items[item.ID] = *item
		return nil
	})
}

func (r *memItems) Update(ctx context.Context, item *domain.Item) error {
	return r.v.with(func(st *memoryState) error {
		current, ok := st.items[item.ID]
		if !ok {
			return apperror.NotFound("Item not found")
		}
		if err := st.checkItemRefs(item); err != nil {
			return err
		}
		updated := *item
		updated.StockQty = current.StockQty
		updated.CreatedAt = current.CreatedAt
		updated.UpdatedAt = time.Now()
		st.items[item.ID] = updated
		*item = updated
		return nil
	})
}

func (r *memItems) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	var out *domain.Item
	err := r.v.with(func(st *memoryState) error {
		item, ok := st.items[id]
		if !ok {
			return apperror.NotFound("Item not found")
		}
		out = &item
		return nil
	})
	return out, err
}

func (r *memItems) FindByIDs(ctx context.Context, ids []uint) ([]domain.Item, error) {
	var out []domain.Item
	err := r.v.with(func(st *memoryState) error {
		for _, id := range ids {
			if item, ok := st.items[id]; ok {
				out = append(out, item)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *memItems) List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, int64, error) {
	var out []domain.Item
	err := r.v.with(func(st *memoryState) error {
		q := strings.ToLower(strings.TrimSpace(filter.Query))
		for _, id := range sortedKeys(st.items) {
			item := st.items[id]
			if q != "" && !strings.Contains(strings.ToLower(item.SKU), q) && !strings.Contains(strings.ToLower(item.Name), q) {
				continue
			}
			if filter.CategoryID != nil && (item.CategoryID == nil || *item.CategoryID != *filter.CategoryID) {
				continue
			}
			if filter.BrandID != nil && (item.BrandID == nil || *item.BrandID != *filter.BrandID) {
				continue
			}
			if filter.LowStock && !item.IsLowStock() {
				continue
			}
			out = append(out, item)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	total := int64(len(out))
	return pageOf(out, filter.Limit, filter.Offset), total, err
}

func (r *memItems) Lookup(ctx context.Context, query string, limit int) ([]domain.ItemLookup, error) {
	var out []domain.ItemLookup
	err := r.v.with(func(st *memoryState) error {
		q := strings.ToLower(strings.TrimSpace(query))
		var matched []domain.Item
		for _, item := range st.items {
			if strings.Contains(strings.ToLower(item.SKU), q) || strings.Contains(strings.ToLower(item.Name), q) {
				matched = append(matched, item)
			}
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
		for _, item := range pageOf(matched, limit, 0) {
			out = append(out, domain.ItemLookup{
				ID:        item.ID,
				SKU:       item.SKU,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				StockQty:  item.StockQty,
				Category:  namePtr(st.categories, item.CategoryID),
				Brand:     namePtr(st.brands, item.BrandID),
			})
		}
		return nil
	})
	return out, err
}

func (st *memoryState) recalculate(id uint) {
	item, ok := st.items[id]
	if !ok {
		return
	}
	total := 0
	for _, b := range st.batches {
		if b.ItemID == id {
			total += b.Qty
		}
	}
	item.StockQty = total
	st.items[id] = item
}

func (r *memItems) RecalculateStock(ctx context.Context, ids []uint) error {
	return r.v.with(func(st *memoryState) error {
		for _, id := range ids {
			st.recalculate(id)
		}
		return nil
	})
}

func (r *memItems) RecalculateAllStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.v.with(func(st *memoryState) error {
		for id := range st.items {
			st.recalculate(id)
			n++
		}
		return nil
	})
	return n, err
}

// SetStock overwrites an item's cached stock. Tests use it to simulate
// drift that RecalculateStock repairs.
func (s *Store) SetStock(itemID uint, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.state.items[itemID]; ok {
		item.StockQty = qty
		s.state.items[itemID] = item
	}
}

// Batches

type memBatches struct{ v *memView }

func (st *memoryState) checkBatch(b *domain.Batch) error {
	if _, ok := st.items[b.ItemID]; !ok {
		return apperror.ForeignKey("Invalid item_id")
	}
	if b.Qty < 0 {
		return apperror.InsufficientStock("Insufficient batch quantity")
	}
	for id, other := range st.batches {
		if id != b.ID && other.ItemID == b.ItemID && other.BatchNo == b.BatchNo {
			return apperror.Conflict("Batch already exists for this item")
		}
	}
	return nil
}

func (r *memBatches) Insert(ctx context.Context, batch *domain.Batch) error {
	return r.v.with(func(st *memoryState) error {
		if err := st.checkBatch(batch); err != nil {
			return err
		}
		batch.ID = st.next("batches")
		batch.CreatedAt = time.Now()
		st.batches[batch.ID] = *batch
		return nil
	})
}

func (r *memBatches) Upsert(ctx context.Context, itemID uint, batchNo string, expiry *calendar.Date, qty int) (*domain.Batch, error) {
	var out *domain.Batch
	err := r.v.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.batches) {
			b := st.batches[id]
			if b.ItemID != itemID || b.BatchNo != batchNo {
				continue
			}
			b.Qty += qty
			if expiry != nil {
				e := *expiry
				b.ExpiryDate = &e
			}
			st.batches[id] = b
			out = &b
			return nil
		}

		b := domain.Batch{ItemID: itemID, BatchNo: batchNo, Qty: qty}
		if expiry != nil {
			e := *expiry
			b.ExpiryDate = &e
		}
		if err := st.checkBatch(&b); err != nil {
			return err
		}
		b.ID = st.next("batches")
		b.CreatedAt = time.Now()
		st.batches[b.ID] = b
		out = &b
		return nil
	})
	return out, err
}

func (r *memBatches) FindForItem(ctx context.Context, itemID, batchID uint) (*domain.Batch, error) {
	var out *domain.Batch
	err := r.v.with(func(st *memoryState) error {
		b, ok := st.batches[batchID]
		if !ok || b.ItemID != itemID {
			return apperror.NotFound("Not found")
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *memBatches) Save(ctx context.Context, batch *domain.Batch) error {
	return r.v.with(func(st *memoryState) error {
		current, ok := st.batches[batch.ID]
		if !ok {
			return apperror.NotFound("Not found")
		}
		if err := st.checkBatch(batch); err != nil {
			return err
		}
		batch.CreatedAt = current.CreatedAt
		st.batches[batch.ID] = *batch
		return nil
	})
}

func (r *memBatches) ListByItem(ctx context.Context, itemID uint) ([]domain.Batch, error) {
	var out []domain.Batch
	err := r.v.with(func(st *memoryState) error {
		for _, b := range st.batches {
			if b.ItemID == itemID {
				out = append(out, b)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			ei, ej := out[i].ExpiryDate, out[j].ExpiryDate
			switch {
			case ei == nil && ej == nil:
				return out[i].ID > out[j].ID
			case ei == nil:
				return false
			case ej == nil:
				return true
			case !ei.Equal(*ej):
				return ei.Before(*ej)
			}
			return out[i].ID > out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *memBatches) LockAvailable(ctx context.Context, itemID uint) ([]domain.Batch, error) {
	var out []domain.Batch
	err := r.v.with(func(st *memoryState) error {
		for _, b := range st.batches {
			if b.ItemID == itemID && b.Qty > 0 {
				out = append(out, b)
			}
		}
		domain.SortFEFO(out)
		return nil
	})
	return out, err
}

func (r *memBatches) AddQty(ctx context.Context, batchID uint, delta int) error {
	return r.v.with(func(st *memoryState) error {
		b, ok := st.batches[batchID]
		if !ok {
			return apperror.NotFound("Batch not found")
		}
		if b.Qty+delta < 0 {
			return apperror.InsufficientStock("Insufficient batch quantity")
		}
		b.Qty += delta
		st.batches[batchID] = b
		return nil
	})
}

// Purchases

type memPurchases struct{ v *memView }

func (r *memPurchases) Create(ctx context.Context, purchase *domain.Purchase) error {
	return r.v.with(func(st *memoryState) error {
		if _, ok := st.suppliers[purchase.SupplierID]; !ok {
			return apperror.ForeignKey("Invalid supplier_id")
		}
		for _, line := range purchase.Lines {
			if _, ok := st.items[line.ItemID]; !ok {
				return apperror.ForeignKey("Invalid item_id")
			}
		}

		purchase.ID = st.next("purchases")
		purchase.CreatedAt = time.Now()
		for i := range purchase.Lines {
			purchase.Lines[i].ID = st.next("purchase_items")
			purchase.Lines[i].PurchaseID = purchase.ID
			st.purchaseLines = append(st.purchaseLines, purchase.Lines[i])
		}
		header := *purchase
		header.Lines = nil
		st.purchases[purchase.ID] = header
		return nil
	})
}

func (st *memoryState) purchaseSummary(p domain.Purchase) domain.PurchaseSummary {
	id := p.SupplierID
	return domain.PurchaseSummary{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		SupplierName: namePtr(st.suppliers, &id),
		InvoiceNo:    p.InvoiceNo,
		PurchaseDate: p.PurchaseDate,
		SubTotal:     p.SubTotal,
		TaxAmount:    p.TaxAmount,
		TotalAmount:  p.TotalAmount,
		Status:       p.Status,
	}
}

func (r *memPurchases) FindDetail(ctx context.Context, id uint) (*domain.PurchaseDetail, error) {
	var out *domain.PurchaseDetail
	err := r.v.with(func(st *memoryState) error {
		p, ok := st.purchases[id]
		if !ok {
			return apperror.NotFound("Purchase not found")
		}
		detail := &domain.PurchaseDetail{Header: st.purchaseSummary(p), Lines: []domain.PurchaseLineView{}}
		for _, line := range st.purchaseLines {
			if line.PurchaseID == id {
				item := st.items[line.ItemID]
				detail.Lines = append(detail.Lines, domain.PurchaseLineView{PurchaseLine: line, SKU: item.SKU, ItemName: item.Name})
			}
		}
		out = detail
		return nil
	})
	return out, err
}

func (r *memPurchases) List(ctx context.Context, limit, offset int) ([]domain.PurchaseSummary, int64, error) {
	var out []domain.PurchaseSummary
	err := r.v.with(func(st *memoryState) error {
		ids := sortedKeys(st.purchases)
		for i := len(ids) - 1; i >= 0; i-- {
			out = append(out, st.purchaseSummary(st.purchases[ids[i]]))
		}
		return nil
	})
	total := int64(len(out))
	return pageOf(out, limit, offset), total, err
}

// Sales

type memSales struct{ v *memView }

func (r *memSales) Create(ctx context.Context, sale *domain.Sale) error {
	return r.v.with(func(st *memoryState) error {
		if sale.CustomerID != nil {
			if _, ok := st.customers[*sale.CustomerID]; !ok {
				return apperror.ForeignKey("Invalid customer_id")
			}
		}
		for _, p := range sale.Payments {
			if _, ok := st.paymentTypes[p.PaymentTypeID]; !ok {
				return apperror.ForeignKey("Invalid payment_type_id")
			}
		}

		sale.ID = st.next("sales")
		sale.CreatedAt = time.Now()
		for i := range sale.Items {
			sale.Items[i].ID = st.next("sale_items")
			sale.Items[i].SaleID = sale.ID
			st.saleItems = append(st.saleItems, sale.Items[i])
		}
		for i := range sale.Allocations {
			sale.Allocations[i].ID = st.next("sale_batches")
			sale.Allocations[i].SaleID = sale.ID
			st.saleBatches = append(st.saleBatches, sale.Allocations[i])
		}
		for i := range sale.Payments {
			sale.Payments[i].ID = st.next("sale_payments")
			sale.Payments[i].SaleID = sale.ID
			st.salePayments = append(st.salePayments, sale.Payments[i])
		}

		header := *sale
		header.Items, header.Allocations, header.Payments = nil, nil, nil
		st.sales[sale.ID] = header
		return nil
	})
}

func (r *memSales) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	var out *domain.Sale
	err := r.v.with(func(st *memoryState) error {
		sale, ok := st.sales[id]
		if !ok {
			return apperror.NotFound("Sale not found")
		}
		out = &sale
		return nil
	})
	return out, err
}

func (r *memSales) FindForUpdate(ctx context.Context, id uint) (*domain.Sale, error) {
	return r.FindByID(ctx, id)
}

func (st *memoryState) saleHeader(s domain.Sale) domain.SaleHeaderView {
	return domain.SaleHeaderView{
		ID:             s.ID,
		SaleDate:       s.SaleDate,
		SubTotal:       s.SubTotal,
		TaxAmount:      s.TaxAmount,
		DiscountAmount: s.DiscountAmount,
		TotalAmount:    s.TotalAmount,
		CustomerID:     s.CustomerID,
		CustomerName:   namePtr(st.customers, s.CustomerID),
		Notes:          s.Notes,
	}
}

func (r *memSales) FindDetail(ctx context.Context, id uint) (*domain.SaleDetail, error) {
	var out *domain.SaleDetail
	err := r.v.with(func(st *memoryState) error {
		sale, ok := st.sales[id]
		if !ok {
			return apperror.NotFound("Sale not found")
		}
		detail := &domain.SaleDetail{Header: st.saleHeader(sale), Lines: []domain.SaleLineView{}}
		for _, si := range st.saleItems {
			if si.SaleID != id {
				continue
			}
			item := st.items[si.ItemID]
			line := domain.SaleLineView{
				ID: si.ID, ItemID: si.ItemID, SKU: item.SKU, ItemName: item.Name,
				BatchID: si.BatchID, Qty: si.Qty, UnitPrice: si.UnitPrice, LineTotal: si.LineTotal,
			}
			if si.BatchID != nil {
				if b, ok := st.batches[*si.BatchID]; ok {
					no := b.BatchNo
					line.BatchNo = &no
					line.ExpiryDate = b.ExpiryDate
				}
			}
			detail.Lines = append(detail.Lines, line)
		}
		out = detail
		return nil
	})
	return out, err
}

func (r *memSales) List(ctx context.Context, limit, offset int) ([]domain.SaleHeaderView, int64, error) {
	var out []domain.SaleHeaderView
	err := r.v.with(func(st *memoryState) error {
		ids := sortedKeys(st.sales)
		for i := len(ids) - 1; i >= 0; i-- {
			out = append(out, st.saleHeader(st.sales[ids[i]]))
		}
		return nil
	})
	total := int64(len(out))
	return pageOf(out, limit, offset), total, err
}

func (r *memSales) SoldQty(ctx context.Context, saleID uint) (map[uint]int, error) {
	out := map[uint]int{}
	err := r.v.with(func(st *memoryState) error {
		for _, sb := range st.saleBatches {
			if sb.SaleID == saleID {
				out[sb.ItemID] += sb.Qty
			}
		}
		return nil
	})
	return out, err
}

func (r *memSales) ConsumedBatches(ctx context.Context, saleID, itemID uint) ([]domain.ConsumedBatch, error) {
	var out []domain.ConsumedBatch
	err := r.v.with(func(st *memoryState) error {
		for _, sb := range st.saleBatches {
			if sb.SaleID != saleID || sb.ItemID != itemID {
				continue
			}
			out = append(out, domain.ConsumedBatch{
				BatchID:    sb.BatchID,
				ExpiryDate: st.batches[sb.BatchID].ExpiryDate,
				Qty:        sb.Qty,
			})
		}
		return nil
	})
	return out, err
}

func (r *memSales) LatestUnitPrice(ctx context.Context, saleID, itemID uint) (*decimal.Decimal, error) {
	var out *decimal.Decimal
	err := r.v.with(func(st *memoryState) error {
		for _, si := range st.saleItems {
			if si.SaleID == saleID && si.ItemID == itemID {
				price := si.UnitPrice
				out = &price
			}
		}
		return nil
	})
	return out, err
}

// Returns

type memReturns struct{ v *memView }

func (r *memReturns) Create(ctx context.Context, ret *domain.SaleReturn) error {
	return r.v.with(func(st *memoryState) error {
		if _, ok := st.sales[ret.SaleID]; !ok {
			return apperror.ForeignKey("Invalid sale_id")
		}
		ret.ID = st.next("sale_returns")
		ret.CreatedAt = time.Now()
		for i := range ret.Lines {
			ret.Lines[i].ID = st.next("sale_return_items")
			ret.Lines[i].SaleReturnID = ret.ID
			st.returnItems = append(st.returnItems, ret.Lines[i])
		}
		header := *ret
		header.Lines = nil
		st.returns[ret.ID] = header
		return nil
	})
}

func (r *memReturns) AddBatchAllocations(ctx context.Context, rows []domain.SaleReturnBatch) error {
	return r.v.with(func(st *memoryState) error {
		for i := range rows {
			if _, ok := st.batches[rows[i].BatchID]; !ok {
				return apperror.ForeignKey("Invalid batch_id")
			}
			rows[i].ID = st.next("sale_return_batches")
			st.returnBatches = append(st.returnBatches, rows[i])
		}
		return nil
	})
}

func (r *memReturns) ReturnedQty(ctx context.Context, saleID uint) (map[uint]int, error) {
	out := map[uint]int{}
	err := r.v.with(func(st *memoryState) error {
		for _, rb := range st.returnBatches {
			if rb.SaleID == saleID {
				out[rb.ItemID] += rb.Qty
			}
		}
		return nil
	})
	return out, err
}

func (r *memReturns) ReturnedByBatch(ctx context.Context, saleID, itemID uint) (map[uint]int, error) {
	out := map[uint]int{}
	err := r.v.with(func(st *memoryState) error {
		for _, rb := range st.returnBatches {
			if rb.SaleID == saleID && rb.ItemID == itemID {
				out[rb.BatchID] += rb.Qty
			}
		}
		return nil
	})
	return out, err
}

func (r *memReturns) ListBySale(ctx context.Context, saleID uint) ([]domain.SaleReturn, error) {
	out := []domain.SaleReturn{}
	err := r.v.with(func(st *memoryState) error {
		ids := sortedKeys(st.returns)
		for i := len(ids) - 1; i >= 0; i-- {
			if ret := st.returns[ids[i]]; ret.SaleID == saleID {
				out = append(out, ret)
			}
		}
		return nil
	})
	return out, err
}

func (r *memReturns) FindDetail(ctx context.Context, saleID, returnID uint) (*domain.ReturnDetail, error) {
	var out *domain.ReturnDetail
	err := r.v.with(func(st *memoryState) error {
		ret, ok := st.returns[returnID]
		if !ok || ret.SaleID != saleID {
			return apperror.NotFound("Return not found")
		}
		detail := &domain.ReturnDetail{Header: ret, Lines: []domain.ReturnLineView{}, Batches: []domain.ReturnBatchView{}}
		for _, li := range st.returnItems {
			if li.SaleReturnID != returnID {
				continue
			}
			item := st.items[li.ItemID]
			detail.Lines = append(detail.Lines, domain.ReturnLineView{
				ID: li.ID, ItemID: li.ItemID, SKU: item.SKU, ItemName: item.Name,
				Qty: li.Qty, UnitPrice: li.UnitPrice, LineTotal: li.LineTotal,
			})
		}
		for _, rb := range st.returnBatches {
			if rb.SaleReturnID != returnID {
				continue
			}
			b := st.batches[rb.BatchID]
			detail.Batches = append(detail.Batches, domain.ReturnBatchView{
				ID: rb.ID, ItemID: rb.ItemID, BatchNo: b.BatchNo, ExpiryDate: b.ExpiryDate, Qty: rb.Qty,
			})
		}
		out = detail
		return nil
	})
	return out, err
}

// Reorders

type memReorders struct{ v *memView }

func (st *memoryState) checkReorder(ro *domain.Reorder) error {
	if _, ok := st.items[ro.ItemID]; !ok {
		return apperror.ForeignKey("Invalid item_id")
	}
	if ro.SupplierID != nil {
		if _, ok := st.suppliers[*ro.SupplierID]; !ok {
			return apperror.ForeignKey("Invalid supplier_id")
		}
	}
	if ro.Status == domain.ReorderPending {
		for id, other := range st.reorders {
			if id != ro.ID && other.ItemID == ro.ItemID && other.Status == domain.ReorderPending {
				return apperror.Conflict("A pending reorder already exists for this item")
			}
		}
	}
	return nil
}

func (r *memReorders) Create(ctx context.Context, reorder *domain.Reorder) error {
	return r.v.with(func(st *memoryState) error {
		if err := st.checkReorder(reorder); err != nil {
			return err
		}
		reorder.ID = st.next("reorders")
		reorder.CreatedAt = time.Now()
		st.reorders[reorder.ID] = *reorder
		return nil
	})
}

func (r *memReorders) Save(ctx context.Context, reorder *domain.Reorder) error {
	return r.v.with(func(st *memoryState) error {
		if _, ok := st.reorders[reorder.ID]; !ok {
			return apperror.NotFound("Reorder not found")
		}
		if err := st.checkReorder(reorder); err != nil {
			return err
		}
		st.reorders[reorder.ID] = *reorder
		return nil
	})
}

func (r *memReorders) FindByID(ctx context.Context, id uint) (*domain.Reorder, error) {
	var out *domain.Reorder
	err := r.v.with(func(st *memoryState) error {
		ro, ok := st.reorders[id]
		if !ok {
			return apperror.NotFound("Reorder not found")
		}
		out = &ro
		return nil
	})
	return out, err
}

func (r *memReorders) FindPending(ctx context.Context, itemID uint) (*domain.Reorder, error) {
	var out *domain.Reorder
	err := r.v.with(func(st *memoryState) error {
		for _, ro := range st.reorders {
			if ro.ItemID == itemID && ro.Status == domain.ReorderPending {
				found := ro
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *memReorders) Delete(ctx context.Context, id uint) error {
	return r.v.with(func(st *memoryState) error {
		if _, ok := st.reorders[id]; !ok {
			return apperror.NotFound("Reorder not found")
		}
		delete(st.reorders, id)
		return nil
	})
}

func (r *memReorders) List(ctx context.Context, status string, limit int) ([]domain.ReorderView, error) {
	var out []domain.ReorderView
	err := r.v.with(func(st *memoryState) error {
		ids := sortedKeys(st.reorders)
		for i := len(ids) - 1; i >= 0; i-- {
			ro := st.reorders[ids[i]]
			if status != "" && status != "all" && ro.Status != status {
				continue
			}
			item := st.items[ro.ItemID]
			out = append(out, domain.ReorderView{
				Reorder:      ro,
				SKU:          item.SKU,
				Name:         item.Name,
				StockQty:     item.StockQty,
				MinStock:     item.MinStock,
				MaxStock:     item.MaxStock,
				SupplierName: namePtr(st.suppliers, ro.SupplierID),
			})
		}
		return nil
	})
	return pageOf(out, limit, 0), err
}

func (r *memReorders) Stats(ctx context.Context, day time.Time) (*domain.ReorderStats, error) {
	stats := &domain.ReorderStats{}
	err := r.v.with(func(st *memoryState) error {
		y, m, d := day.Date()
		for _, ro := range st.reorders {
			switch ro.Status {
			case domain.ReorderPending:
				stats.Pending++
			case domain.ReorderOrdered:
				if ro.OrderedAt != nil {
					oy, om, od := ro.OrderedAt.In(day.Location()).Date()
					if oy == y && om == m && od == d {
						stats.OrderedToday++
					}
				}
			}
		}
		return nil
	})
	return stats, err
}
