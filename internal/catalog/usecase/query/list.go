package query

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/catalog/domain"
)

// ListHandler lists catalog entries of one kind in the repository's order
type ListHandler[T any] struct {
	repo domain.Lister[T]
}

// NewListHandler creates a new list handler
func NewListHandler[T any](repo domain.Lister[T]) *ListHandler[T] {
	return &ListHandler[T]{repo: repo}
}

func (h *ListHandler[T]) Handle(ctx context.Context) ([]T, error) {
	rows, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
