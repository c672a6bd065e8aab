package command

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/expense/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
	"github.com/tair/pharmacy-backend/pkg/calendar"
)

// CreateExpenseCommand records a cost; ExpenseDate defaults to today
type CreateExpenseCommand struct {
	CategoryID  uint
	Amount      decimal.Decimal
	ExpenseDate *calendar.Date
	Description *string
}

// CreateExpenseHandler handles expense creation
type CreateExpenseHandler struct {
	repo  domain.ExpenseRepository
	today func() calendar.Date
}

// NewCreateExpenseHandler creates a new handler
func NewCreateExpenseHandler(repo domain.ExpenseRepository) *CreateExpenseHandler {
	return &CreateExpenseHandler{repo: repo, today: calendar.Today}
}

func (h *CreateExpenseHandler) Handle(ctx context.Context, cmd CreateExpenseCommand) (*domain.Expense, error) {
	if cmd.CategoryID == 0 {
		return nil, apperror.Validation("category_id is required")
	}
	if cmd.Amount.IsNegative() {
		return nil, apperror.Validation("amount must be >= 0")
	}

	e := &domain.Expense{
		CategoryID: cmd.CategoryID,
		Amount:     cmd.Amount.Round(2),
	}
	if cmd.ExpenseDate != nil {
		e.ExpenseDate = *cmd.ExpenseDate
	} else {
		e.ExpenseDate = h.today()
	}
	if cmd.Description != nil {
		if d := strings.TrimSpace(*cmd.Description); d != "" {
			e.Description = &d
		}
	}

	if err := h.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteExpenseHandler handles expense removal
type DeleteExpenseHandler struct {
	repo domain.ExpenseRepository
}

// NewDeleteExpenseHandler creates a new handler
func NewDeleteExpenseHandler(repo domain.ExpenseRepository) *DeleteExpenseHandler {
	return &DeleteExpenseHandler{repo: repo}
}

func (h *DeleteExpenseHandler) Handle(ctx context.Context, id uint) error {
	return h.repo.Delete(ctx, id)
}
