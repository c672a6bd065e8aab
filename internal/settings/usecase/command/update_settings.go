package command

import (
	"context"
	"strings"

	"github.com/tair/pharmacy-backend/internal/settings/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// UpdateSettingsHandler upserts a batch of settings
type UpdateSettingsHandler struct {
	repo domain.SettingRepository
}

// NewUpdateSettingsHandler creates a new handler
func NewUpdateSettingsHandler(repo domain.SettingRepository) *UpdateSettingsHandler {
	return &UpdateSettingsHandler{repo: repo}
}

// Handle trims keys; a nil value stores NULL
func (h *UpdateSettingsHandler) Handle(ctx context.Context, values map[string]*string) error {
	if len(values) == 0 {
		return apperror.Validation("No settings provided")
	}
	clean := make(map[string]*string, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			return apperror.Validation("Setting keys must not be empty")
		}
		if len(key) > domain.MaxKeyLength {
			return apperror.Validation("Setting key %q is too long", key)
		}
		clean[key] = v
	}
	return h.repo.Upsert(ctx, clean)
}
