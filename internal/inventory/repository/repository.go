package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/pharmacy-backend/internal/inventory/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
	"github.com/tair/pharmacy-backend/pkg/database"
)

// GormStore is the postgres implementation of the inventory store. A
// GormStore returned by Execute is bound to that transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Items() domain.ItemRepository         { return &gormItemRepository{db: s.db} }
func (s *GormStore) Batches() domain.BatchRepository      { return &gormBatchRepository{db: s.db} }
func (s *GormStore) Purchases() domain.PurchaseRepository { return &gormPurchaseRepository{db: s.db} }
func (s *GormStore) Sales() domain.SaleRepository         { return &gormSaleRepository{db: s.db} }
func (s *GormStore) Returns() domain.ReturnRepository     { return &gormReturnRepository{db: s.db} }
func (s *GormStore) Reorders() domain.ReorderRepository   { return &gormReorderRepository{db: s.db} }

// Execute runs fn in one transaction
func (s *GormStore) Execute(ctx context.Context, fn func(tx domain.Store) error) error {
	return database.NewTransactor(s.db).WithTransaction(ctx, func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func dateArg(d *calendar.Date) interface{} {
	if d == nil {
		return nil
	}
	return *d
}

type itemQty struct {
	ItemID uint
	Qty    int
}

type batchQty struct {
	BatchID uint
	Qty     int
}

// Items

type gormItemRepository struct {
	db *gorm.DB
}

// itemWritable lists the columns clients may change; stock_qty is owned
// by the aggregator.
var itemWritable = []string{
	"sku", "name", "category_id", "brand_id", "unit_id",
	"cost_price", "unit_price", "min_stock", "max_stock", "updated_at",
}

func (r *gormItemRepository) Create(ctx context.Context, item *domain.Item) error {
	item.StockQty = 0
	return database.TranslateError(r.db.WithContext(ctx).Create(item).Error)
}

func (r *gormItemRepository) Update(ctx context.Context, item *domain.Item) error {
	item.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(item).Select(itemWritable).Updates(item)
	if res.Error != nil {
		return database.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Item not found")
	}
	return nil
}

func (r *gormItemRepository) FindByID(ctx context.Context, id uint) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Item not found")
		}
		return nil, database.TranslateError(err)
	}
	return &item, nil
}

func (r *gormItemRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Item, error) {
	var items []domain.Item
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&items).Error
	return items, database.TranslateError(err)
}

func (r *gormItemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Item{})
	if s := strings.TrimSpace(filter.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("sku ILIKE ? OR name ILIKE ?", like, like)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.BrandID != nil {
		q = q.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.LowStock {
		q = q.Where("stock_qty <= min_stock")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, database.TranslateError(err)
	}

	var items []domain.Item
	err := q.Order("name ASC, id ASC").Limit(filter.Limit).Offset(filter.Offset).Find(&items).Error
	if err != nil {
		return nil, 0, database.TranslateError(err)
	}
	return items, total, nil
}

func (r *gormItemRepository) Lookup(ctx context.Context, query string, limit int) ([]domain.ItemLookup, error) {
	like := "%" + strings.TrimSpace(query) + "%"
	var rows []domain.ItemLookup
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.id, i.sku, i.name, i.unit_price, i.stock_qty, c.name AS category, b.name AS brand
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id
		LEFT JOIN brands b ON b.id = i.brand_id
		WHERE i.sku ILIKE ? OR i.name ILIKE ?
		ORDER BY i.name ASC
		LIMIT ?`, like, like, limit).Scan(&rows).Error
	return rows, database.TranslateError(err)
}

// RecalculateStock locks the item rows before re-deriving them so the
// UPDATE reads batches committed by any writer it waited on.
func (r *gormItemRepository) RecalculateStock(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)

	var locked []uint
	err := db.Model(&domain.Item{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id").Pluck("id", &locked).Error
	if err != nil {
		return database.TranslateError(err)
	}

	err = db.Exec(`
		UPDATE items
		SET stock_qty = COALESCE((SELECT SUM(b.qty) FROM batches b WHERE b.item_id = items.id), 0),
		    updated_at = NOW()
		WHERE id IN ?`, ids).Error
	return database.TranslateError(err)
}

func (r *gormItemRepository) RecalculateAllStock(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE items
		SET stock_qty = COALESCE((SELECT SUM(b.qty) FROM batches b WHERE b.item_id = items.id), 0),
		    updated_at = NOW()`)
	return res.RowsAffected, database.TranslateError(res.Error)
}

// Batches

type gormBatchRepository struct {
	db *gorm.DB
}

func (r *gormBatchRepository) Insert(ctx context.Context, batch *domain.Batch) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(batch).Error)
}

func (r *gormBatchRepository) Upsert(ctx context.Context, itemID uint, batchNo string, expiry *calendar.Date, qty int) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO batches (item_id, batch_no, expiry_date, qty)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (item_id, batch_no) DO UPDATE
		SET qty = batches.qty + EXCLUDED.qty,
		    expiry_date = COALESCE(EXCLUDED.expiry_date, batches.expiry_date)
		RETURNING id, item_id, batch_no, expiry_date, qty, created_at`,
		itemID, batchNo, dateArg(expiry), qty).Scan(&batch).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &batch, nil
}

func (r *gormBatchRepository) FindForItem(ctx context.Context, itemID, batchID uint) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND item_id = ?", batchID, itemID).
		First(&batch).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &batch, nil
}

func (r *gormBatchRepository) Save(ctx context.Context, batch *domain.Batch) error {
	err := r.db.WithContext(ctx).Model(batch).
		Select("batch_no", "expiry_date", "qty").
		Updates(batch).Error
	return database.TranslateError(err)
}

func (r *gormBatchRepository) ListByItem(ctx context.Context, itemID uint) ([]domain.Batch, error) {
	var batches []domain.Batch
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("expiry_date ASC NULLS LAST, id DESC").
		Find(&batches).Error
	return batches, database.TranslateError(err)
}

func (r *gormBatchRepository) LockAvailable(ctx context.Context, itemID uint) ([]domain.Batch, error) {
	var batches []domain.Batch
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND qty > 0", itemID).
		Order("expiry_date ASC NULLS LAST, id ASC").
		Find(&batches).Error
	return batches, database.TranslateError(err)
}

func (r *gormBatchRepository) AddQty(ctx context.Context, batchID uint, delta int) error {
	db := r.db.WithContext(ctx)
	res := db.Exec(`UPDATE batches SET qty = qty + ? WHERE id = ? AND qty + ? >= 0`, delta, batchID, delta)
	if res.Error != nil {
		return database.TranslateError(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.Model(&domain.Batch{}).Where("id = ?", batchID).Count(&count).Error; err != nil {
		return database.TranslateError(err)
	}
	if count == 0 {
		return apperror.NotFound("Batch not found")
	}
	return apperror.InsufficientStock("Insufficient batch quantity")
}

// Purchases

type gormPurchaseRepository struct {
	db *gorm.DB
}

func (r *gormPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(purchase).Error; err != nil {
		return database.TranslateError(err)
	}
	for i := range purchase.Lines {
		purchase.Lines[i].PurchaseID = purchase.ID
	}
	if len(purchase.Lines) > 0 {
		if err := db.Create(&purchase.Lines).Error; err != nil {
			return database.TranslateError(err)
		}
	}
	return nil
}

const purchaseSummarySQL = `
	SELECT p.id, p.supplier_id, s.name AS supplier_name, p.invoice_no, p.purchase_date,
	       p.sub_total, p.tax_amount, p.total_amount, p.status
	FROM purchases p
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

func (r *gormPurchaseRepository) FindDetail(ctx context.Context, id uint) (*domain.PurchaseDetail, error) {
	db := r.db.WithContext(ctx)

	var headers []domain.PurchaseSummary
	if err := db.Raw(purchaseSummarySQL+` WHERE p.id = ?`, id).Scan(&headers).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	if len(headers) == 0 {
		return nil, apperror.NotFound("Purchase not found")
	}

	var lines []domain.PurchaseLineView
	err := db.Raw(`
		SELECT pi.id, pi.purchase_id, pi.item_id, pi.batch_no, pi.expiry_date, pi.qty,
		       pi.unit_cost, pi.line_total, i.sku, i.name AS item_name
		FROM purchase_items pi
		JOIN items i ON i.id = pi.item_id
		WHERE pi.purchase_id = ?
		ORDER BY pi.id`, id).Scan(&lines).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &domain.PurchaseDetail{Header: headers[0], Lines: lines}, nil
}

func (r *gormPurchaseRepository) List(ctx context.Context, limit, offset int) ([]domain.PurchaseSummary, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&domain.Purchase{}).Count(&total).Error; err != nil {
		return nil, 0, database.TranslateError(err)
	}

	var rows []domain.PurchaseSummary
	err := db.Raw(purchaseSummarySQL+` ORDER BY p.purchase_date DESC, p.id DESC LIMIT ? OFFSET ?`, limit, offset).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, database.TranslateError(err)
	}
	return rows, total, nil
}

// Sales

type gormSaleRepository struct {
	db *gorm.DB
}

func (r *gormSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(sale).Error; err != nil {
		return database.TranslateError(err)
	}

	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}
	for i := range sale.Allocations {
		sale.Allocations[i].SaleID = sale.ID
	}
	for i := range sale.Payments {
		sale.Payments[i].SaleID = sale.ID
	}

	if len(sale.Items) > 0 {
		if err := db.Create(&sale.Items).Error; err != nil {
			return database.TranslateError(err)
		}
	}
	if len(sale.Allocations) > 0 {
		if err := db.Create(&sale.Allocations).Error; err != nil {
			return database.TranslateError(err)
		}
	}
	if len(sale.Payments) > 0 {
		if err := db.Create(&sale.Payments).Error; err != nil {
			return database.TranslateError(err)
		}
	}
	return nil
}

func (r *gormSaleRepository) find(db *gorm.DB, id uint) (*domain.Sale, error) {
	var sale domain.Sale
	if err := db.First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Sale not found")
		}
		return nil, database.TranslateError(err)
	}
	return &sale, nil
}

func (r *gormSaleRepository) FindByID(ctx context.Context, id uint) (*domain.Sale, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *gormSaleRepository) FindForUpdate(ctx context.Context, id uint) (*domain.Sale, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

const saleHeaderSQL = `
	SELECT s.id, s.sale_date, s.sub_total, s.tax_amount, s.discount_amount, s.total_amount,
	       s.customer_id, c.name AS customer_name, s.notes
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id`

func (r *gormSaleRepository) FindDetail(ctx context.Context, id uint) (*domain.SaleDetail, error) {
	db := r.db.WithContext(ctx)

	var headers []domain.SaleHeaderView
	if err := db.Raw(saleHeaderSQL+` WHERE s.id = ?`, id).Scan(&headers).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	if len(headers) == 0 {
		return nil, apperror.NotFound("Sale not found")
	}

	var lines []domain.SaleLineView
	err := db.Raw(`
		SELECT si.id, si.item_id, i.sku, i.name AS item_name, si.batch_id, b.batch_no, b.expiry_date,
		       si.qty, si.unit_price, si.line_total
		FROM sale_items si
		JOIN items i ON i.id = si.item_id
		LEFT JOIN batches b ON b.id = si.batch_id
		WHERE si.sale_id = ?
		ORDER BY si.id`, id).Scan(&lines).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &domain.SaleDetail{Header: headers[0], Lines: lines}, nil
}

func (r *gormSaleRepository) List(ctx context.Context, limit, offset int) ([]domain.SaleHeaderView, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&domain.Sale{}).Count(&total).Error; err != nil {
		return nil, 0, database.TranslateError(err)
	}

	var rows []domain.SaleHeaderView
	err := db.Raw(saleHeaderSQL+` ORDER BY s.id DESC LIMIT ? OFFSET ?`, limit, offset).Scan(&rows).Error
	if err != nil {
		return nil, 0, database.TranslateError(err)
	}
	return rows, total, nil
}

func (r *gormSaleRepository) SoldQty(ctx context.Context, saleID uint) (map[uint]int, error) {
	var rows []itemQty
	err := r.db.WithContext(ctx).Raw(`
		SELECT item_id, SUM(qty) AS qty FROM sale_batches
		WHERE sale_id = ? GROUP BY item_id`, saleID).Scan(&rows).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.ItemID] = row.Qty
	}
	return out, nil
}

func (r *gormSaleRepository) ConsumedBatches(ctx context.Context, saleID, itemID uint) ([]domain.ConsumedBatch, error) {
	var rows []domain.ConsumedBatch
	err := r.db.WithContext(ctx).Raw(`
		SELECT sb.batch_id, b.expiry_date, SUM(sb.qty) AS qty
		FROM sale_batches sb
		JOIN batches b ON b.id = sb.batch_id
		WHERE sb.sale_id = ? AND sb.item_id = ?
		GROUP BY sb.batch_id, b.expiry_date`, saleID, itemID).Scan(&rows).Error
	return rows, database.TranslateError(err)
}

func (r *gormSaleRepository) LatestUnitPrice(ctx context.Context, saleID, itemID uint) (*decimal.Decimal, error) {
	var prices []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&domain.SaleItem{}).
		Where("sale_id = ? AND item_id = ?", saleID, itemID).
		Order("id DESC").Limit(1).
		Pluck("unit_price", &prices).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return &prices[0], nil
}

// Returns

type gormReturnRepository struct {
	db *gorm.DB
}

func (r *gormReturnRepository) Create(ctx context.Context, ret *domain.SaleReturn) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(ret).Error; err != nil {
		return database.TranslateError(err)
	}
	for i := range ret.Lines {
		ret.Lines[i].SaleReturnID = ret.ID
	}
	if len(ret.Lines) > 0 {
		if err := db.Create(&ret.Lines).Error; err != nil {
			return database.TranslateError(err)
		}
	}
	return nil
}

func (r *gormReturnRepository) AddBatchAllocations(ctx context.Context, rows []domain.SaleReturnBatch) error {
	if len(rows) == 0 {
		return nil
	}
	return database.TranslateError(r.db.WithContext(ctx).Create(&rows).Error)
}

func (r *gormReturnRepository) ReturnedQty(ctx context.Context, saleID uint) (map[uint]int, error) {
	var rows []itemQty
	err := r.db.WithContext(ctx).Raw(`
		SELECT item_id, SUM(qty) AS qty FROM sale_return_batches
		WHERE sale_id = ? GROUP BY item_id`, saleID).Scan(&rows).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.ItemID] = row.Qty
	}
	return out, nil
}

func (r *gormReturnRepository) ReturnedByBatch(ctx context.Context, saleID, itemID uint) (map[uint]int, error) {
	var rows []batchQty
	err := r.db.WithContext(ctx).Raw(`
		SELECT batch_id, SUM(qty) AS qty FROM sale_return_batches
		WHERE sale_id = ? AND item_id = ? GROUP BY batch_id`, saleID, itemID).Scan(&rows).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	out := make(map[uint]int, len(rows))
	for _, row := range rows {
		out[row.BatchID] = row.Qty
	}
	return out, nil
}

func (r *gormReturnRepository) ListBySale(ctx context.Context, saleID uint) ([]domain.SaleReturn, error) {
	var rows []domain.SaleReturn
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).Order("id DESC").Find(&rows).Error
	return rows, database.TranslateError(err)
}

func (r *gormReturnRepository) FindDetail(ctx context.Context, saleID, returnID uint) (*domain.ReturnDetail, error) {
	db := r.db.WithContext(ctx)

	var header domain.SaleReturn
	if err := db.Where("id = ? AND sale_id = ?", returnID, saleID).First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Return not found")
		}
		return nil, database.TranslateError(err)
	}

	var lines []domain.ReturnLineView
	err := db.Raw(`
		SELECT ri.id, ri.item_id, i.sku, i.name AS item_name, ri.qty, ri.unit_price, ri.line_total
		FROM sale_return_items ri
		JOIN items i ON i.id = ri.item_id
		WHERE ri.sale_return_id = ?
		ORDER BY ri.id`, returnID).Scan(&lines).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}

	var batches []domain.ReturnBatchView
	err = db.Raw(`
		SELECT rb.id, rb.item_id, b.batch_no, b.expiry_date, rb.qty
		FROM sale_return_batches rb
		JOIN batches b ON b.id = rb.batch_id
		WHERE rb.sale_return_id = ?
		ORDER BY rb.id`, returnID).Scan(&batches).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}

	return &domain.ReturnDetail{Header: header, Lines: lines, Batches: batches}, nil
}

// Reorders

type gormReorderRepository struct {
	db *gorm.DB
}

func (r *gormReorderRepository) Create(ctx context.Context, reorder *domain.Reorder) error {
	return database.TranslateError(r.db.WithContext(ctx).Create(reorder).Error)
}

func (r *gormReorderRepository) Save(ctx context.Context, reorder *domain.Reorder) error {
	err := r.db.WithContext(ctx).Model(reorder).
		Select("requested_qty", "status", "supplier_id", "notes", "ordered_at").
		Updates(reorder).Error
	return database.TranslateError(err)
}

func (r *gormReorderRepository) FindByID(ctx context.Context, id uint) (*domain.Reorder, error) {
	var reorder domain.Reorder
	if err := r.db.WithContext(ctx).First(&reorder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Reorder not found")
		}
		return nil, database.TranslateError(err)
	}
	return &reorder, nil
}

func (r *gormReorderRepository) FindPending(ctx context.Context, itemID uint) (*domain.Reorder, error) {
	var rows []domain.Reorder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND status = ?", itemID, domain.ReorderPending).
		Limit(1).Find(&rows).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *gormReorderRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Reorder{}, id)
	if res.Error != nil {
		return database.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Reorder not found")
	}
	return nil
}

func (r *gormReorderRepository) List(ctx context.Context, status string, limit int) ([]domain.ReorderView, error) {
	q := `
		SELECT r.id, r.item_id, r.requested_qty, r.status, r.supplier_id, r.notes, r.created_at, r.ordered_at,
		       i.sku, i.name, i.stock_qty, i.min_stock, i.max_stock, s.name AS supplier_name
		FROM reorders r
		JOIN items i ON i.id = r.item_id
		LEFT JOIN suppliers s ON s.id = r.supplier_id`
	args := []interface{}{}
	if status != "" && status != "all" {
		q += ` WHERE r.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY r.created_at DESC, r.id DESC LIMIT ?`
	args = append(args, limit)

	var rows []domain.ReorderView
	err := r.db.WithContext(ctx).Raw(q, args...).Scan(&rows).Error
	return rows, database.TranslateError(err)
}

func (r *gormReorderRepository) Stats(ctx context.Context, day time.Time) (*domain.ReorderStats, error) {
	db := r.db.WithContext(ctx)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var stats domain.ReorderStats
	if err := db.Model(&domain.Reorder{}).Where("status = ?", domain.ReorderPending).Count(&stats.Pending).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	err := db.Model(&domain.Reorder{}).
		Where("status = ? AND ordered_at >= ? AND ordered_at < ?", domain.ReorderOrdered, start, end).
		Count(&stats.OrderedToday).Error
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return &stats, nil
}
