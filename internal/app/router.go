package app

import (
	"github.com/gin-gonic/gin"

	"github.com/Tombstone73/quotevault-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:         cfg.ServiceName,
		AllowOrigins:        cfg.AllowOrigins,
		ConfiguratorHandler: handlers.Configurator,
		ComponentHandler:    handlers.Component,
	})
}
