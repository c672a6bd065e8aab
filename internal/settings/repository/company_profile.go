package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/pharmacy-backend/internal/settings/domain"
)

// GormCompanyProfileRepository implements CompanyProfileRepository using GORM
type GormCompanyProfileRepository struct {
	db *gorm.DB
}

// NewGormCompanyProfileRepository creates a new company profile repository
func NewGormCompanyProfileRepository(db *gorm.DB) *GormCompanyProfileRepository {
	return &GormCompanyProfileRepository{db: db}
}

func (r *GormCompanyProfileRepository) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	var rows []domain.CompanyProfile
	if err := r.db.WithContext(ctx).Order("id").Limit(1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read company profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *GormCompanyProfileRepository) Save(ctx context.Context, profile *domain.CompanyProfile) error {
	now := time.Now()
	profile.ID = domain.CompanyProfileID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	updates := []string{"name", "address", "phone", "email", "tax_id", "receipt_footer", "updated_at"}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("failed to save company profile: %w", err)
	}
	return nil
}
