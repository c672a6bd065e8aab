// Package catalog wires the reference data tables: categories, brands,
// units, suppliers, payment types, taxes and currencies.
package catalog

import (
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/catalog/delivery/http"
	"github.com/tair/pharmacy-backend/internal/catalog/domain"
	"github.com/tair/pharmacy-backend/internal/catalog/repository"
	"github.com/tair/pharmacy-backend/internal/catalog/usecase/command"
	"github.com/tair/pharmacy-backend/internal/catalog/usecase/query"
)

// NewHTTPHandler builds the catalog handler on top of db
func NewHTTPHandler(db *gorm.DB) *http.CatalogHandler {
	paymentTypes := repository.NewGormRepository[domain.PaymentType](db, "Payment type")
	taxes := repository.NewGormRepository[domain.Tax](db, "Tax")

	return &http.CatalogHandler{
		Categories:   http.NewEntries[domain.Category](repository.NewGormRepository[domain.Category](db, "Category"), command.ValidateCategory),
		Brands:       http.NewEntries[domain.Brand](repository.NewGormRepository[domain.Brand](db, "Brand"), command.ValidateBrand),
		Units:        http.NewEntries[domain.Unit](repository.NewGormRepository[domain.Unit](db, "Unit"), command.ValidateUnit),
		Suppliers:    http.NewEntries[domain.Supplier](repository.NewGormRepository[domain.Supplier](db, "Supplier"), command.ValidateSupplier),
		PaymentTypes: http.NewEntries[domain.PaymentType](paymentTypes, command.ValidatePaymentType),
		Taxes:        http.NewEntries[domain.Tax](taxes, command.ValidateTax),
		Currencies:   query.NewListHandler[domain.Currency](repository.NewGormCurrencyRepository(db)),

		DeletePaymentType: command.NewDeleteHandler[domain.PaymentType](paymentTypes),
		UpdateTax:         command.NewUpdateTaxHandler(taxes),
		DeleteTax:         command.NewDeleteHandler[domain.Tax](taxes),
	}
}
