package query

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/notification/domain"
)

// ListTemplatesHandler lists templates by name
type ListTemplatesHandler struct {
	repo domain.TemplateRepository
}

// NewListTemplatesHandler creates a new handler
func NewListTemplatesHandler(repo domain.TemplateRepository) *ListTemplatesHandler {
	return &ListTemplatesHandler{repo: repo}
}

func (h *ListTemplatesHandler) Handle(ctx context.Context) ([]domain.Template, error) {
	rows, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Template{}
	}
	return rows, nil
}

// ListOutboxHandler returns the most recent messages, newest first
type ListOutboxHandler struct {
	repo domain.OutboxRepository
}

// NewListOutboxHandler creates a new handler
func NewListOutboxHandler(repo domain.OutboxRepository) *ListOutboxHandler {
	return &ListOutboxHandler{repo: repo}
}

func (h *ListOutboxHandler) Handle(ctx context.Context) ([]domain.OutboxMessage, error) {
	rows, err := h.repo.Recent(ctx, domain.OutboxLimit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.OutboxMessage{}
	}
	return rows, nil
}
