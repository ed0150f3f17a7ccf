package config

import (
	"mediflow-service/internal/pkg/constvars"
	"mediflow-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                       utils.GetEnvString("APP_ENV", "development"),
			Port:                      utils.GetEnvString("APP_PORT", ":8080"),
			Version:                   utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:            utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:               utils.GetEnvInt("APP_MAX_REQUESTS", 100),
			ShutdownTimeoutInSeconds:  utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT_IN_SECONDS", 10),
			MaxTimeRequestsPerSeconds: utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 1),
		},
		FHIR: FHIR{
			BaseUrl: utils.GetEnvString("FHIR_BASE_URL", "http://localhost:5555/fhir"),
		},
		Policy: Policy{
			BaseUrl:              utils.GetEnvString("POLICY_BASE_URL", "http://localhost:5555/config"),
			DurationPropertyName: utils.GetEnvString("POLICY_SESSION_DURATION_PROPERTY", "encounterSessionDurationInMinutes"),
			CacheTTLInSeconds:    utils.GetEnvInt("POLICY_CACHE_TTL_IN_SECONDS", 300),
		},
		Session: Session{
			DefaultDurationMinutes:  utils.GetEnvInt("SESSION_DEFAULT_DURATION_MINUTES", constvars.SessionDefaultDurationMinutes),
			ResolveTimeoutInSeconds: utils.GetEnvInt("SESSION_RESOLVE_TIMEOUT_IN_SECONDS", constvars.SessionResolveTimeoutInSeconds),
		},
	}
}
