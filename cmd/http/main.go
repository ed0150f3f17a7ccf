package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediflow-service/internal/app/config"
	"mediflow-service/internal/app/delivery/http/middlewares"
	"mediflow-service/internal/app/delivery/http/routers"
	"mediflow-service/internal/app/drivers/database"
	"mediflow-service/internal/app/drivers/logger"
	"mediflow-service/internal/app/services/core/policy"
	"mediflow-service/internal/app/services/core/sessions"
	fhirEncounters "mediflow-service/internal/app/services/fhir_spark/encounters"
	fhirVisits "mediflow-service/internal/app/services/fhir_spark/visits"
	"mediflow-service/internal/app/services/shared/redis"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	defer log.Sync()

	redisClient := database.NewRedisClient(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrapingTheApp(config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	})

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Session policy
	policyService := policy.NewSessionPolicyService(bootstrap.InternalConfig, redisRepository, bootstrap.Logger)

	// FHIR clients
	encounterFhirClient := fhirEncounters.NewEncounterFhirClient(bootstrap.InternalConfig.FHIR.BaseUrl, bootstrap.Logger)
	visitFhirClient := fhirVisits.NewVisitFhirClient(bootstrap.InternalConfig.FHIR.BaseUrl, bootstrap.Logger)

	// Session
	sessionUsecase := sessions.NewSessionUsecase(encounterFhirClient, visitFhirClient, policyService, bootstrap.InternalConfig, bootstrap.Logger)
	sessionController := sessions.NewSessionController(bootstrap.Logger, sessionUsecase)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, sessionController)
}
