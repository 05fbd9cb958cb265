package app

import (
	"github.com/Tombstone73/quotevault-backend/internal/handlers"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

type Handlers struct {
	Configurator *handlers.ConfiguratorHandler
	Component    *handlers.ComponentHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Configurator: handlers.NewConfiguratorHandler(services.Configurator),
		Component:    handlers.NewComponentHandler(services.Component),
	}
}
