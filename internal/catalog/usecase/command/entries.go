package command

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/catalog/domain"
)

// Validator normalises and checks an entry before it is stored
type Validator[T any] func(entry *T) error

// CreateHandler creates catalog entries of one kind
type CreateHandler[T any] struct {
	repo     domain.Repository[T]
	validate Validator[T]
}

// NewCreateHandler creates a new create handler
func NewCreateHandler[T any](repo domain.Repository[T], validate Validator[T]) *CreateHandler[T] {
	return &CreateHandler[T]{repo: repo, validate: validate}
}

// Handle validates and stores entry
func (h *CreateHandler[T]) Handle(ctx context.Context, entry T) (*T, error) {
	if err := h.validate(&entry); err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteHandler deletes catalog entries of one kind
type DeleteHandler[T any] struct {
	repo domain.Repository[T]
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler[T any](repo domain.Repository[T]) *DeleteHandler[T] {
	return &DeleteHandler[T]{repo: repo}
}

// Handle returns NotFound when id does not exist
func (h *DeleteHandler[T]) Handle(ctx context.Context, id uint) error {
	return h.repo.Delete(ctx, id)
}
