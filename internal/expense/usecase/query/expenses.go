package query

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/expense/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

func checkRange(f domain.Filter) error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return apperror.Validation("from must not be after to")
	}
	return nil
}

// ListCategoriesHandler lists expense categories
type ListCategoriesHandler struct {
	repo domain.CategoryRepository
}

// NewListCategoriesHandler creates a new handler
func NewListCategoriesHandler(repo domain.CategoryRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]domain.Category, error) {
	rows, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Category{}
	}
	return rows, nil
}

// ListExpensesHandler lists expenses in a date range
type ListExpensesHandler struct {
	repo domain.ExpenseRepository
}

// NewListExpensesHandler creates a new handler
func NewListExpensesHandler(repo domain.ExpenseRepository) *ListExpensesHandler {
	return &ListExpensesHandler{repo: repo}
}

func (h *ListExpensesHandler) Handle(ctx context.Context, f domain.Filter) ([]domain.ExpenseView, error) {
	if err := checkRange(f); err != nil {
		return nil, err
	}
	rows, err := h.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.ExpenseView{}
	}
	return rows, nil
}

// SummaryHandler totals expenses overall and per category
type SummaryHandler struct {
	repo domain.ExpenseRepository
}

// NewSummaryHandler creates a new handler
func NewSummaryHandler(repo domain.ExpenseRepository) *SummaryHandler {
	return &SummaryHandler{repo: repo}
}

func (h *SummaryHandler) Handle(ctx context.Context, f domain.Filter) (*domain.Summary, error) {
	if err := checkRange(f); err != nil {
		return nil, err
	}
	byCategory, err := h.repo.ByCategory(ctx, f)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		Overall:    domain.Totals{Total: decimal.Zero},
		ByCategory: []domain.CategoryTotals{},
	}
	for _, c := range byCategory {
		summary.Overall.Count += c.Count
		summary.Overall.Total = summary.Overall.Total.Add(c.Total)
		summary.ByCategory = append(summary.ByCategory, c)
	}
	return summary, nil
}
