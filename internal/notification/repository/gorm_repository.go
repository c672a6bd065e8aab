package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/database"
)

// GormTemplateRepository implements TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new template repository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) List(ctx context.Context) ([]domain.Template, error) {
	var rows []domain.Template
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return rows, nil
}

func (r *GormTemplateRepository) FindByID(ctx context.Context, id uint) (*domain.Template, error) {
	var t domain.Template
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, templateError(err)
	}
	return &t, nil
}

func (r *GormTemplateRepository) EnsureByName(ctx context.Context, name, body string) (*domain.Template, error) {
	var t domain.Template
	err := r.db.WithContext(ctx).
		Where(domain.Template{Name: name}).
		Attrs(domain.Template{Body: body}).
		FirstOrCreate(&t).Error
	if err == nil {
		return &t, nil
	}
	// lost a concurrent insert; the row exists now
	if apperror.Is(database.TranslateError(err), apperror.KindConflict) {
		if err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("failed to ensure template %s: %w", name, err)
}

func (r *GormTemplateRepository) Create(ctx context.Context, t *domain.Template) error {
	return templateError(r.db.WithContext(ctx).Create(t).Error)
}

func (r *GormTemplateRepository) Update(ctx context.Context, t *domain.Template) error {
	return templateError(r.db.WithContext(ctx).Save(t).Error)
}

func (r *GormTemplateRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Template{}, id)
	if res.Error != nil {
		return templateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Template not found")
	}
	return nil
}

func templateError(err error) error {
	if err == nil {
		return nil
	}
	translated := database.TranslateError(err)
	switch apperror.KindOf(translated) {
	case apperror.KindNotFound:
		return apperror.NotFound("Template not found")
	case apperror.KindConflict:
		return apperror.Conflict("Template name already exists")
	case apperror.KindInternal:
		return fmt.Errorf("failed to access templates: %w", translated)
	}
	return translated
}

// GormOutboxRepository implements OutboxRepository using GORM
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new outbox repository
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Create(ctx context.Context, m *domain.OutboxMessage) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to queue message: %w", err)
	}
	return nil
}

func (r *GormOutboxRepository) MarkSent(ctx context.Context, id uint, providerMessageID string) error {
	updates := map[string]interface{}{"status": domain.StatusSent, "sent_at": time.Now()}
	if providerMessageID != "" {
		updates["provider_message_id"] = providerMessageID
	}
	return r.update(ctx, id, updates)
}

func (r *GormOutboxRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	return r.update(ctx, id, map[string]interface{}{"status": domain.StatusFailed, "error": reason})
}

func (r *GormOutboxRepository) update(ctx context.Context, id uint, updates map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&domain.OutboxMessage{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update outbox message %d: %w", id, err)
	}
	return nil
}

func (r *GormOutboxRepository) Recent(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	var rows []domain.OutboxMessage
	if err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list outbox: %w", err)
	}
	return rows, nil
}

// GormSaleLookup implements SaleLookup with plain reads
type GormSaleLookup struct {
	db *gorm.DB
}

// NewGormSaleLookup creates a new sale lookup
func NewGormSaleLookup(db *gorm.DB) *GormSaleLookup {
	return &GormSaleLookup{db: db}
}

func (r *GormSaleLookup) SaleTotal(ctx context.Context, saleID uint) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Table("sales").Select("total_amount").Where("id = ?", saleID).Row().Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, apperror.NotFound("Sale not found")
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read sale %d: %w", saleID, err)
	}
	return total.Decimal, nil
}

func (r *GormSaleLookup) Customer(ctx context.Context, customerID uint) (*domain.Customer, error) {
	var c domain.Customer
	res := r.db.WithContext(ctx).Table("customers").Select("name, phone").Where("id = ?", customerID).Scan(&c)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to read customer %d: %w", customerID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NotFound("Customer not found")
	}
	return &c, nil
}

func (r *GormSaleLookup) StockLevels(ctx context.Context, itemIDs []uint) ([]domain.StockLevel, error) {
	var rows []domain.StockLevel
	err := r.db.WithContext(ctx).Table("items").
		Select("id, sku, name, stock_qty, min_stock").
		Where("id IN ?", itemIDs).
		Order("id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read stock levels: %w", err)
	}
	return rows, nil
}
