package command

import (
	"context"
	"strings"

	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// TemplateCommand carries template fields; nil leaves a field unchanged on update
type TemplateCommand struct {
	Name *string
	Body *string
}

// CreateTemplateHandler handles template creation
type CreateTemplateHandler struct {
	repo domain.TemplateRepository
}

// NewCreateTemplateHandler creates a new handler
func NewCreateTemplateHandler(repo domain.TemplateRepository) *CreateTemplateHandler {
	return &CreateTemplateHandler{repo: repo}
}

func (h *CreateTemplateHandler) Handle(ctx context.Context, cmd TemplateCommand) (*domain.Template, error) {
	name, body := deref(cmd.Name), deref(cmd.Body)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(body) == "" {
		return nil, apperror.Validation("name and body are required")
	}
	t := &domain.Template{Name: strings.TrimSpace(name), Body: body}
	if err := h.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTemplateHandler handles template updates
type UpdateTemplateHandler struct {
	repo domain.TemplateRepository
}

// NewUpdateTemplateHandler creates a new handler
func NewUpdateTemplateHandler(repo domain.TemplateRepository) *UpdateTemplateHandler {
	return &UpdateTemplateHandler{repo: repo}
}

func (h *UpdateTemplateHandler) Handle(ctx context.Context, id uint, cmd TemplateCommand) (*domain.Template, error) {
	if cmd.Name == nil && cmd.Body == nil {
		return nil, apperror.Validation("No fields to update")
	}
	t, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		t.Name = name
	}
	if cmd.Body != nil {
		if strings.TrimSpace(*cmd.Body) == "" {
			return nil, apperror.Validation("body must not be empty")
		}
		t.Body = *cmd.Body
	}
	if err := h.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTemplateHandler handles template removal
type DeleteTemplateHandler struct {
	repo domain.TemplateRepository
}

// NewDeleteTemplateHandler creates a new handler
func NewDeleteTemplateHandler(repo domain.TemplateRepository) *DeleteTemplateHandler {
	return &DeleteTemplateHandler{repo: repo}
}

func (h *DeleteTemplateHandler) Handle(ctx context.Context, id uint) error {
	return h.repo.Delete(ctx, id)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
