package routers

import (
	"net/http"

	"github.com/neckchi/vesseleta/internal/dependencies"
	"github.com/neckchi/vesseleta/internal/handlers"
	"github.com/neckchi/vesseleta/internal/middleware"
)

const apiServiceName = "api"

// EtaRouter serves single-terminal resolution, the all-terminal check, the registry listing and health.
func EtaRouter(deps *dependencies.Dependencies) http.Handler {
	appConfig := middleware.GetAppConfig(deps.Config, apiServiceName)
	cors := middleware.CheckCORS([]string{"*"})
	middlewareStackForResolve := middleware.CreateStack(
		middleware.Recovery,
		cors,
		middleware.AddCorrelationID,
		middleware.AddHeaders,
		appConfig,
		middleware.Logging,
		middleware.ResolveQueryValidation,
	)
	middlewareStackForBatch := middleware.CreateStack(
		middleware.Recovery,
		cors,
		middleware.AddCorrelationID,
		middleware.AddHeaders,
		appConfig,
		middleware.Logging,
		middleware.BatchQueryValidation,
	)
	middlewareStackForList := middleware.CreateStack(middleware.Recovery, cors, middleware.AddCorrelationID, middleware.AddHeaders, middleware.Logging)
	middlewareStackForhc := middleware.CreateStack(middleware.Recovery, middleware.AddCorrelationID, middleware.Logging, middleware.AddHeaders)

	etaRouter := http.NewServeMux()
	etaRouter.Handle("GET /eta/resolve", middlewareStackForResolve(handlers.ResolveHandler(deps.Engine, deps.Cache)))
	etaRouter.Handle("GET /eta/check-all", middlewareStackForBatch(handlers.CheckAllHandler(deps.Engine)))
	etaRouter.Handle("GET /eta/terminals", middlewareStackForList(handlers.TerminalsHandler(deps.Engine)))
	etaRouter.Handle("GET /health", middlewareStackForhc(handlers.HealthCheckHandler(deps.Engine)))
	return etaRouter
}
