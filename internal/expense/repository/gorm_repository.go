package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/expense/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/database"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new expense category repository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var rows []domain.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list expense categories: %w", err)
	}
	return rows, nil
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, categoryError(err)
	}
	return &c, nil
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return categoryError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return categoryError(r.db.WithContext(ctx).Save(c).Error)
}

// Delete fails with Conflict while expenses still reference the category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if res.Error != nil {
		err := categoryError(res.Error)
		if apperror.Is(err, apperror.KindForeignKey) {
			return apperror.Conflict("Expense category is in use")
		}
		return err
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Expense category not found")
	}
	return nil
}

func categoryError(err error) error {
	if err == nil {
		return nil
	}
	translated := database.TranslateError(err)
	switch apperror.KindOf(translated) {
	case apperror.KindNotFound:
		return apperror.NotFound("Expense category not found")
	case apperror.KindConflict:
		return apperror.Conflict("Expense category already exists")
	case apperror.KindInternal:
		return fmt.Errorf("failed to access expense categories: %w", translated)
	}
	return translated
}

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new expense repository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) filtered(ctx context.Context, f domain.Filter) *gorm.DB {
	tx := r.db.WithContext(ctx).Table("expenses e").Joins("JOIN expense_categories c ON c.id = e.category_id")
	if f.From != nil {
		tx = tx.Where("e.expense_date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("e.expense_date <= ?", *f.To)
	}
	if f.CategoryID != nil {
		tx = tx.Where("e.category_id = ?", *f.CategoryID)
	}
	return tx
}

// List returns expenses newest first
func (r *GormExpenseRepository) List(ctx context.Context, f domain.Filter) ([]domain.ExpenseView, error) {
	var rows []domain.ExpenseView
	err := r.filtered(ctx, f).
		Select("e.*, c.name AS category_name").
		Order("e.expense_date DESC, e.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return rows, nil
}

func (r *GormExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		translated := database.TranslateError(err)
		if apperror.Is(translated, apperror.KindForeignKey) {
			return apperror.ForeignKey("Invalid category_id")
		}
		return fmt.Errorf("failed to create expense: %w", translated)
	}
	return nil
}

func (r *GormExpenseRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Expense{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Expense not found")
	}
	return nil
}

func (r *GormExpenseRepository) ByCategory(ctx context.Context, f domain.Filter) ([]domain.CategoryTotals, error) {
	var rows []domain.CategoryTotals
	err := r.filtered(ctx, f).
		Select("e.category_id, c.name AS category_name, COUNT(*) AS count, COALESCE(SUM(e.amount), 0) AS total").
		Group("e.category_id, c.name").
		Order("c.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarise expenses: %w", err)
	}
	return rows, nil
}
