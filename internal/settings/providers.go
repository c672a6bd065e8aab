package settings

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/settings/domain"
	"github.com/tair/pharmacy-backend/internal/settings/repository"
	"github.com/tair/pharmacy-backend/internal/settings/usecase/command"
	"github.com/tair/pharmacy-backend/internal/settings/usecase/query"
)

// ProvideSettingRepository provides the settings repository
func ProvideSettingRepository(db *gorm.DB) domain.SettingRepository {
	return repository.NewGormSettingRepository(db)
}

// ProvideCompanyProfileRepository provides the company profile repository
func ProvideCompanyProfileRepository(db *gorm.DB) domain.CompanyProfileRepository {
	return repository.NewGormCompanyProfileRepository(db)
}

// Wire sets
var HandlerSet = wire.NewSet(
	ProvideSettingRepository,
	ProvideCompanyProfileRepository,
	command.NewUpdateSettingsHandler,
	query.NewListSettingsHandler,
	query.NewPublicSettingsHandler,
	query.NewGetCompanyProfileHandler,
	command.NewUpdateCompanyProfileHandler,
)
