package command

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/pharmacy-backend/internal/catalog/domain"
	"github.com/tair/pharmacy-backend/pkg/apperror"
)

var maxTaxRate = decimal.NewFromInt(100)

func requireName(name *string) error {
	*name = strings.TrimSpace(*name)
	if *name == "" {
		return apperror.Validation("name is required")
	}
	return nil
}

func trimOptional(values ...**string) {
	for _, v := range values {
		if *v == nil {
			continue
		}
		trimmed := strings.TrimSpace(**v)
		if trimmed == "" {
			*v = nil
			continue
		}
		*v = &trimmed
	}
}

func ValidateCategory(c *domain.Category) error { return requireName(&c.Name) }

func ValidateBrand(b *domain.Brand) error { return requireName(&b.Name) }

func ValidatePaymentType(p *domain.PaymentType) error { return requireName(&p.Name) }

func ValidateUnit(u *domain.Unit) error {
	trimOptional(&u.Symbol)
	return requireName(&u.Name)
}

func ValidateSupplier(s *domain.Supplier) error {
	trimOptional(&s.Phone, &s.Email, &s.Address)
	return requireName(&s.Name)
}

// ValidateTax also bounds the rate to 0..100
func ValidateTax(t *domain.Tax) error {
	if err := requireName(&t.Name); err != nil {
		return err
	}
	if t.Rate.IsNegative() || t.Rate.GreaterThan(maxTaxRate) {
		return apperror.Validation("rate must be between 0 and 100")
	}
	return nil
}
