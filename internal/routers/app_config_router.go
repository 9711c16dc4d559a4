package routers

import (
	"net/http"

	"github.com/neckchi/vesseleta/configs/controller"
	"github.com/neckchi/vesseleta/configs/domain"
	"github.com/neckchi/vesseleta/internal/middleware"
)

// AppConfigRouter exposes the merged settings per service. Reloading is left to the caller's ConfigService.
func AppConfigRouter(cfg *domain.Config) http.Handler {
	c := controller.Controller{Config: cfg}
	middlewareStackForrc := middleware.CreateStack(middleware.Recovery, middleware.CheckCORS([]string{"*"}), middleware.AddCorrelationID, middleware.AddHeaders, middleware.Logging)
	appConfigRouter := http.NewServeMux()
	appConfigRouter.Handle("GET /read/{serviceName}", middlewareStackForrc(c.ReadConfig()))
	return appConfigRouter
}
