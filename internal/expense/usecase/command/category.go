package command

import (
	"context"
	"strings"

	"github.com/tair/pharmacy-backend/internal/expense/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// CreateCategoryHandler handles expense category creation
type CreateCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewCreateCategoryHandler creates a new handler
func NewCreateCategoryHandler(repo domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{repo: repo}
}

func (h *CreateCategoryHandler) Handle(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	c := &domain.Category{Name: name}
	if err := h.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RenameCategoryHandler handles expense category updates
type RenameCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewRenameCategoryHandler creates a new handler
func NewRenameCategoryHandler(repo domain.CategoryRepository) *RenameCategoryHandler {
	return &RenameCategoryHandler{repo: repo}
}

func (h *RenameCategoryHandler) Handle(ctx context.Context, id uint, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	c, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	if err := h.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategoryHandler handles expense category removal
type DeleteCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewDeleteCategoryHandler creates a new handler
func NewDeleteCategoryHandler(repo domain.CategoryRepository) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{repo: repo}
}

func (h *DeleteCategoryHandler) Handle(ctx context.Context, id uint) error {
	return h.repo.Delete(ctx, id)
}
