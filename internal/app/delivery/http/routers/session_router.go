package routers

import (
	"mediflow-service/internal/app/delivery/http/middlewares"
	"mediflow-service/internal/app/services/core/sessions"

	"github.com/go-chi/chi/v5"
)

func attachSessionRoutes(router chi.Router, middlewares *middlewares.Middlewares, sessionController *sessions.SessionController) {
	router.Get("/resolve", sessionController.ResolveSession)
	router.Get("/watch", sessionController.WatchSession)
}
