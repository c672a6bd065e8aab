package query

import (
	"context"

	"github.com/tair/pharmacy-backend/internal/settings/domain"
)

// ListSettingsHandler returns every stored setting
type ListSettingsHandler struct {
	repo domain.SettingRepository
}

// NewListSettingsHandler creates a new handler
func NewListSettingsHandler(repo domain.SettingRepository) *ListSettingsHandler {
	return &ListSettingsHandler{repo: repo}
}

func (h *ListSettingsHandler) Handle(ctx context.Context) ([]domain.Setting, error) {
	rows, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Setting{}
	}
	return rows, nil
}

// PublicSettingsHandler returns the unauthenticated subset with defaults
type PublicSettingsHandler struct {
	repo domain.SettingRepository
}

// NewPublicSettingsHandler creates a new handler
func NewPublicSettingsHandler(repo domain.SettingRepository) *PublicSettingsHandler {
	return &PublicSettingsHandler{repo: repo}
}

func (h *PublicSettingsHandler) Handle(ctx context.Context) (*domain.PublicSettings, error) {
	values, err := h.repo.Get(ctx, domain.KeyCurrency, domain.KeyDefaultTaxRate)
	if err != nil {
		return nil, err
	}
	return &domain.PublicSettings{
		Currency:       orDefault(values[domain.KeyCurrency], domain.DefaultCurrency),
		DefaultTaxRate: orDefault(values[domain.KeyDefaultTaxRate], domain.DefaultTaxRate),
	}, nil
}

func orDefault(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// GetCompanyProfileHandler returns the company profile, or nil before one
// is saved
type GetCompanyProfileHandler struct {
	repo domain.CompanyProfileRepository
}

// NewGetCompanyProfileHandler creates a new handler
func NewGetCompanyProfileHandler(repo domain.CompanyProfileRepository) *GetCompanyProfileHandler {
	return &GetCompanyProfileHandler{repo: repo}
}

func (h *GetCompanyProfileHandler) Handle(ctx context.Context) (*domain.CompanyProfile, error) {
	return h.repo.Get(ctx)
}
