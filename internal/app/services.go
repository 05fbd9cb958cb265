package app

import (
	"gorm.io/gorm"

	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
	"github.com/Tombstone73/quotevault-backend/internal/services"
)

type Services struct {
	Configurator  services.ConfiguratorService
	Component     services.ComponentService
	AuditNotifier services.AuditNotifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	notifier := services.NewNopAuditNotifier()
	if clients.Redis != nil {
		notifier = services.NewRedisAuditNotifier(clients.Redis, log)
	}

	configurator := services.NewConfiguratorService(
		db, log,
		repos.Product, repos.OptionTree, repos.OrderLineItem,
	)
	component := services.NewComponentService(
		db, log,
		repos.Product, repos.OptionTree, repos.OrderLineItem, repos.LineItemComponent,
		notifier,
	)

	return Services{
		Configurator:  configurator,
		Component:     component,
		AuditNotifier: notifier,
	}
}
