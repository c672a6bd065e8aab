package notification

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/pharmacy-backend/internal/config"
	"github.com/tair/pharmacy-backend/internal/notification/delivery/http"
	"github.com/tair/pharmacy-backend/internal/notification/domain"
	"github.com/tair/pharmacy-backend/internal/notification/notifier"
	"github.com/tair/pharmacy-backend/internal/notification/provider"
	"github.com/tair/pharmacy-backend/internal/notification/repository"
	"github.com/tair/pharmacy-backend/internal/notification/usecase/command"
	"github.com/tair/pharmacy-backend/internal/notification/usecase/query"
)

// Components are the notification parts that share one sender
type Components struct {
	HTTP     *http.NotificationHandler
	Notifier *notifier.Notifier
}

// ProvideTemplateRepository provides the template repository
func ProvideTemplateRepository(db *gorm.DB) domain.TemplateRepository {
	return repository.NewGormTemplateRepository(db)
}

// ProvideOutboxRepository provides the outbox repository
func ProvideOutboxRepository(db *gorm.DB) domain.OutboxRepository {
	return repository.NewGormOutboxRepository(db)
}

// ProvideSaleLookup provides the sale lookup
func ProvideSaleLookup(db *gorm.DB) domain.SaleLookup {
	return repository.NewGormSaleLookup(db)
}

// ProvideNotifier binds the notifier to the shared sender
func ProvideNotifier(sender *command.SendSMSHandler, lookup domain.SaleLookup, cfg config.SMSConfig) *notifier.Notifier {
	return notifier.New(sender, lookup, cfg)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideTemplateRepository,
	ProvideOutboxRepository,
	ProvideSaleLookup,
	provider.New,
)

var HandlerSet = wire.NewSet(
	command.NewCreateTemplateHandler,
	command.NewUpdateTemplateHandler,
	command.NewDeleteTemplateHandler,
	command.NewSendSMSHandler,
	query.NewListTemplatesHandler,
	query.NewListOutboxHandler,
	http.NewNotificationHandler,
	ProvideNotifier,
	wire.Struct(new(Components), "*"),
)
