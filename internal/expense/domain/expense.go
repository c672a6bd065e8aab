package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// Category classifies running costs (rent, salaries, utilities)
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (Category) TableName() string { return "expense_categories" }

// Expense is one recorded cost
type Expense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CategoryID  uint            `json:"category_id" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	ExpenseDate calendar.Date   `json:"expense_date" gorm:"type:date;not null"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Expense) TableName() string { return "expenses" }

// ExpenseView is an expense joined with its category name
type ExpenseView struct {
	Expense
	CategoryName string `json:"category_name"`
}

// Filter narrows expense listings and summaries; bounds are inclusive
type Filter struct {
	From       *calendar.Date
	To         *calendar.Date
	CategoryID *uint
}

// Totals is a count and an amount sum
type Totals struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// CategoryTotals is Totals for one category
type CategoryTotals struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Count        int64           `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// Summary is the expense summary of a date range
type Summary struct {
	Overall    Totals           `json:"overall"`
	ByCategory []CategoryTotals `json:"by_category"`
}

// CategoryRepository defines the contract for expense category data access
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id uint) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uint) error
}

// ExpenseRepository defines the contract for expense data access
type ExpenseRepository interface {
	List(ctx context.Context, f Filter) ([]ExpenseView, error)
	Create(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id uint) error
	// ByCategory sums amounts per category, ordered by category name
	ByCategory(ctx context.Context, f Filter) ([]CategoryTotals, error)
}
