package controller

import (
	"encoding/json"
	"net/http"

	"github.com/neckchi/vesseleta/configs/domain"
	"github.com/neckchi/vesseleta/internal/exceptions"
)

type Controller struct {
	Config *domain.Config
}

// ReadConfig serves the merged settings of one service.
func (c *Controller) ReadConfig() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serviceName := r.PathValue("serviceName")
		config, err := c.Config.Get(serviceName)
		if err != nil {
			exceptions.InternalErrorHandler(w, err)
			return
		}
		rsp, err := json.Marshal(&config)
		if err != nil {
			exceptions.InternalErrorHandler(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(rsp)
	})
}
