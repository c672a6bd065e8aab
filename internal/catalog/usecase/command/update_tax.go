package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/catalog/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// UpdateTaxCommand is a partial tax update
type UpdateTaxCommand struct {
	ID        uint
	Name      *string
	Rate      *decimal.Decimal
	IsDefault *bool
}

// UpdateTaxHandler handles tax updates
type UpdateTaxHandler struct {
	repo domain.Repository[domain.Tax]
}

// NewUpdateTaxHandler creates a new update tax handler
func NewUpdateTaxHandler(repo domain.Repository[domain.Tax]) *UpdateTaxHandler {
	return &UpdateTaxHandler{repo: repo}
}

// Handle applies the set fields and revalidates the result
func (h *UpdateTaxHandler) Handle(ctx context.Context, cmd UpdateTaxCommand) (*domain.Tax, error) {
	if cmd.Name == nil && cmd.Rate == nil && cmd.IsDefault == nil {
		return nil, apperror.Validation("No fields to update")
	}

	tax, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		tax.Name = *cmd.Name
	}
	if cmd.Rate != nil {
		tax.Rate = *cmd.Rate
	}
	if cmd.IsDefault != nil {
		tax.IsDefault = *cmd.IsDefault
	}
	if err := ValidateTax(tax); err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, tax); err != nil {
		return nil, err
	}
	return tax, nil
}
