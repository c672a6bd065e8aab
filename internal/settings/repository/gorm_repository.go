package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/pharmacy-backend/internal/settings/domain"
	"github.com/tair/pharmacy-backend/pkg/database"
)

// GormSettingRepository implements SettingRepository using GORM
type GormSettingRepository struct {
	db *database.Transactor
}

// NewGormSettingRepository creates a new settings repository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: database.NewTransactor(db)}
}

func (r *GormSettingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	var rows []domain.Setting
	if err := r.db.DB().WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return rows, nil
}

func (r *GormSettingRepository) Get(ctx context.Context, keys ...string) (map[string]*string, error) {
	var rows []domain.Setting
	if err := r.db.DB().WithContext(ctx).Where("key IN ?", keys).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	out := make(map[string]*string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *GormSettingRepository) Upsert(ctx context.Context, values map[string]*string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// rows are locked in key order
	sort.Strings(keys)

	now := time.Now()
	err := r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for _, k := range keys {
			row := domain.Setting{Key: k, Value: values[k], UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
