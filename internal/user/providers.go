package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/user/domain"
	"github.com/tair/pharmacy-backend/internal/user/repository"
	"github.com/tair/pharmacy-backend/internal/user/usecase/command"
	"github.com/tair/pharmacy-backend/internal/user/usecase/query"
)

// ProvideUserRepository provides the traced user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewTracingUserRepository(repository.NewGormUserRepository(db))
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var HandlerSet = wire.NewSet(
	command.NewLoginUserHandler,
	command.NewChangePasswordHandler,
	command.NewCreateUserHandler,
	query.NewListUsersHandler,
)
