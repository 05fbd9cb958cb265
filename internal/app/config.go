package app

import (
	"strings"

	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
	"github.com/Tombstone73/quotevault-backend/internal/utils"
)

type Config struct {
	Port          string
	ServiceName   string
	Environment   string
	Version       string
	RedisAddr     string
	RedisPassword string
	AllowOrigins  []string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)

	var origins []string
	for _, o := range strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Port:          port,
		ServiceName:   "quotevault",
		Environment:   environment,
		Version:       version,
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		AllowOrigins:  origins,
	}
}
