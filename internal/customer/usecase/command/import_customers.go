package command

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/customer/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// ImportCustomersHandler inserts many customers in one transaction
type ImportCustomersHandler struct {
	repo domain.CustomerRepository
}

// NewImportCustomersHandler creates a new import handler
func NewImportCustomersHandler(repo domain.CustomerRepository) *ImportCustomersHandler {
	return &ImportCustomersHandler{repo: repo}
}

// Handle skips rows without a name (invalid) and rows whose phone or email
// is already taken, including by an earlier row of the same import
// (duplicates). Any other failure rolls back the whole import.
func (h *ImportCustomersHandler) Handle(ctx context.Context, rows []CreateCustomerCommand) (*domain.ImportResult, error) {
	if len(rows) == 0 {
		return nil, apperror.Validation("rows must contain at least one entry")
	}

	var result domain.ImportResult
	err := h.repo.Execute(ctx, func(tx domain.CustomerRepository) error {
		result = domain.ImportResult{}
		for _, row := range rows {
			c, err := newCustomer(row)
			if err != nil {
				result.Invalid++
				continue
			}
			dup, err := tx.ExistsByContact(ctx, c.Phone, c.Email, 0)
			if err != nil {
				return err
			}
			if dup {
				result.Duplicates++
				continue
			}
			if err := tx.Create(ctx, c); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
