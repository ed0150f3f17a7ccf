package config

import (
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type (
	Bootstrap struct {
		Router         *chi.Mux
		Redis          *redis.Client
		Logger         *zap.Logger
		DriverConfig   *DriverConfig
		InternalConfig *InternalConfig
	}

	InternalConfig struct {
		App     App
		FHIR    FHIR
		Policy  Policy
		Session Session
	}

	DriverConfig struct {
		Redis  Redis
		Logger Logger
	}

	App struct {
		Env                       string
		Port                      string
		Version                   string
		EndpointPrefix            string
		MaxRequests               int
		ShutdownTimeoutInSeconds  int
		MaxTimeRequestsPerSeconds int
	}

	FHIR struct {
		BaseUrl string
	}

	// Policy points at the remote configuration endpoint that owns the
	// session duration value.
	Policy struct {
		BaseUrl              string
		DurationPropertyName string
		CacheTTLInSeconds    int
	}

	Session struct {
		DefaultDurationMinutes  int
		ResolveTimeoutInSeconds int
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)
