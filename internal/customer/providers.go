package customer

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/customer/domain"
	"github.com/tair/pharmacy-backend/internal/customer/repository"
	"github.com/tair/pharmacy-backend/internal/customer/usecase/command"
	"github.com/tair/pharmacy-backend/internal/customer/usecase/query"
)

// ProvideCustomerRepository provides the customer repository
func ProvideCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return repository.NewGormCustomerRepository(db)
}

// Wire sets
var HandlerSet = wire.NewSet(
	ProvideCustomerRepository,
	command.NewCreateCustomerHandler,
	command.NewUpdateCustomerHandler,
	command.NewDeleteCustomerHandler,
	command.NewImportCustomersHandler,
	query.NewSearchCustomersHandler,
	query.NewGetCustomerHandler,
)
