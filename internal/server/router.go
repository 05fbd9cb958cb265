package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Tombstone73/quotevault-backend/internal/handlers"
)

type RouterConfig struct {
	ServiceName         string
	AllowOrigins        []string
	ConfiguratorHandler *handlers.ConfiguratorHandler
	ComponentHandler    *handlers.ComponentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "quotevault"
	}
	router.Use(otelgin.Middleware(serviceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Configurator
		api.POST("/tree-versions/:id/preview", cfg.ConfiguratorHandler.Preview)
		api.GET("/line-items/:id/config", cfg.ConfiguratorHandler.Staleness)
		api.POST("/line-items/:id/config/recompute", cfg.ConfiguratorHandler.Recompute)
		api.POST("/line-items/:id/config/keep-existing", cfg.ConfiguratorHandler.KeepExisting)

		// Components
		api.GET("/line-items/:id/components", cfg.ComponentHandler.List)
		api.POST("/line-items/:id/components/apply", cfg.ComponentHandler.Apply)
		api.POST("/line-items/:id/components/accept", cfg.ComponentHandler.AcceptAll)
		api.POST("/components/:id/void", cfg.ComponentHandler.Void)
	}

	return router
}
