package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neckchi/vesseleta/configs/service"
	"github.com/neckchi/vesseleta/internal/database"
	"github.com/neckchi/vesseleta/internal/dependencies"
	"github.com/neckchi/vesseleta/internal/routers"
	"github.com/neckchi/vesseleta/internal/utils"
	log "github.com/sirupsen/logrus"
)

const configReloadInterval = 3 * time.Second

func main() {
	deps, err := dependencies.NewDependencies(".env", "api")
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize dependencies")
	}
	utils.ConfigureLogging(deps.EnvManager.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configService := service.ConfigService{Config: deps.Config, Location: deps.EnvManager.ConfigPath}
	go configService.Watch(ctx, configReloadInterval)

	configServer := &http.Server{
		Addr:    deps.EnvManager.ConfigAddr,
		Handler: routers.AppConfigRouter(deps.Config),
	}
	etaServer := &http.Server{
		Addr:    deps.EnvManager.APIAddr,
		Handler: routers.EtaRouter(deps),
	}

	go func() {
		log.Infof("Starting HTTP Server on %s for app config", configServer.Addr)
		if err := configServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server Error: ", err)
		}
	}()
	go func() {
		etaServer.SetKeepAlivesEnabled(true)
		log.Infof("Starting HTTP Server on %s for vessel eta resolution (%d terminals)", etaServer.Addr, deps.Registry.Len())
		if err := etaServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server Error: ", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down server...")
	// an in-flight check-all needs at least one more terminal fetch to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second+deps.Settings.FetchTimeout)
	defer cancel()
	_ = configServer.Shutdown(shutdownCtx)
	_ = etaServer.Shutdown(shutdownCtx)
	if redis, ok := deps.Cache.(*database.RedisConnection); ok {
		if err := redis.Close(); err != nil {
			log.Errorf("redis close: %v", err)
		}
	}

	log.Info("Server gracefully stopped")
}
