package command

import (
	"context"
	"strings"

	"github.com/tair/pharmacy-backend/internal/settings/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

// UpdateCompanyProfileCommand represents the full company profile
type UpdateCompanyProfileCommand struct {
	Name          string
	Address       *string
	Phone         *string
	Email         *string
	TaxID         *string
	ReceiptFooter *string
}

// UpdateCompanyProfileHandler replaces the company profile
type UpdateCompanyProfileHandler struct {
	repo domain.CompanyProfileRepository
}

// NewUpdateCompanyProfileHandler creates a new handler
func NewUpdateCompanyProfileHandler(repo domain.CompanyProfileRepository) *UpdateCompanyProfileHandler {
	return &UpdateCompanyProfileHandler{repo: repo}
}

// Handle stores the profile; blank optional fields are stored as NULL
func (h *UpdateCompanyProfileHandler) Handle(ctx context.Context, cmd UpdateCompanyProfileCommand) (*domain.CompanyProfile, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}

	profile := &domain.CompanyProfile{
		Name:          name,
		Address:       blankToNil(cmd.Address),
		Phone:         blankToNil(cmd.Phone),
		Email:         blankToNil(cmd.Email),
		TaxID:         blankToNil(cmd.TaxID),
		ReceiptFooter: blankToNil(cmd.ReceiptFooter),
	}
	if err := h.repo.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func blankToNil(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
