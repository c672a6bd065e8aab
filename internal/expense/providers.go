package expense

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/expense/domain"
	"github.com/tair/pharmacy-backend/internal/expense/repository"
	"github.com/tair/pharmacy-backend/internal/expense/usecase/command"
	"github.com/tair/pharmacy-backend/internal/expense/usecase/query"
)

// ProvideCategoryRepository provides the expense category repository
func ProvideCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return repository.NewGormCategoryRepository(db)
}

// ProvideExpenseRepository provides the expense repository
func ProvideExpenseRepository(db *gorm.DB) domain.ExpenseRepository {
	return repository.NewGormExpenseRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCategoryRepository,
	ProvideExpenseRepository,
)

var HandlerSet = wire.NewSet(
	command.NewCreateCategoryHandler,
	command.NewRenameCategoryHandler,
	command.NewDeleteCategoryHandler,
	command.NewCreateExpenseHandler,
	command.NewDeleteExpenseHandler,
	query.NewListCategoriesHandler,
	query.NewListExpensesHandler,
	query.NewSummaryHandler,
)
