package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/catalog/domain"
	"github.com/tair/pharmacy-backend/pkg/database"
)

// GormCurrencyRepository lists the currencies table ordered by code
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new currency repository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

func (r *GormCurrencyRepository) List(ctx context.Context) ([]domain.Currency, error) {
	ctx, span := tracer.Start(ctx, "repository.ListCurrencies")
	defer span.End()

	var rows []domain.Currency
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		span.RecordError(err)
		return nil, database.TranslateError(err)
	}
	return rows, nil
}
