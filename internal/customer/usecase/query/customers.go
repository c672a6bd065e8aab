package query

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/customer/domain"
)

// SearchCustomersHandler handles customer search
type SearchCustomersHandler struct {
	repo domain.CustomerRepository
}

// NewSearchCustomersHandler creates a new search handler
func NewSearchCustomersHandler(repo domain.CustomerRepository) *SearchCustomersHandler {
	return &SearchCustomersHandler{repo: repo}
}

// Handle returns up to SearchLimit customers ordered by name
func (h *SearchCustomersHandler) Handle(ctx context.Context, q string) ([]domain.Customer, error) {
	rows, err := h.repo.Search(ctx, q, domain.SearchLimit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Customer{}
	}
	return rows, nil
}

// GetCustomerHandler handles single customer lookups
type GetCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewGetCustomerHandler creates a new get customer handler
func NewGetCustomerHandler(repo domain.CustomerRepository) *GetCustomerHandler {
	return &GetCustomerHandler{repo: repo}
}

func (h *GetCustomerHandler) Handle(ctx context.Context, id uint) (*domain.Customer, error) {
	return h.repo.FindByID(ctx, id)
}
