package dependencies

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neckchi/vesseleta/configs/domain"
	"github.com/neckchi/vesseleta/configs/service"
	"github.com/neckchi/vesseleta/external/renderer"
	"github.com/neckchi/vesseleta/external/terminals"
	"github.com/neckchi/vesseleta/internal/database"
	"github.com/neckchi/vesseleta/internal/engine"
	httpclient "github.com/neckchi/vesseleta/internal/http"
	"github.com/neckchi/vesseleta/internal/registry"
	env "github.com/neckchi/vesseleta/internal/secret"
	log "github.com/sirupsen/logrus"
)

const redisConnectTimeout = 5 * time.Second

// all dependencies required by this app
type Dependencies struct {
	EnvManager *env.Manager
	Config     *domain.Config
	Settings   domain.Settings
	HTTPClient *httpclient.HttpClient
	Registry   *registry.Registry
	Renderer   renderer.Renderer
	Engine     *engine.Engine
	Cache      database.ResultCache
}

// dependenciesInstance holds the singleton instance of Dependencies.
var (
	dependenciesInstance *Dependencies
	once                 sync.Once
	initErr              error
)

// NewDependencies initializes dependencies only once and returns the same instance on subsequent calls.
func NewDependencies(envFile, serviceName string) (*Dependencies, error) {
	once.Do(func() {
		envManager, err := env.NewManager(envFile)
		if err != nil {
			initErr = err
			return
		}
		cfg, err := service.Load(envManager.ConfigPath)
		if err != nil {
			initErr = err
			return
		}
		dependenciesInstance, initErr = Build(envManager, cfg, serviceName)
	})

	if initErr != nil {
		return nil, initErr
	}
	return dependenciesInstance, nil
}

// Build wires everything from an already loaded env and config.
func Build(envManager *env.Manager, cfg *domain.Config, serviceName string) (*Dependencies, error) {
	settings, err := cfg.Settings(serviceName)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	reg, err := registry.New(cfg.Terminals(), settings.FetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("terminal registry: %w", err)
	}

	httpClient := httpclient.CreateHttpClientInstance(
		httpclient.WithCtxTimeout(settings.FetchTimeout),
		httpclient.WithMaxIdleConns(20),
		httpclient.WithMaxConnsPerHost(4),
		httpclient.WithIdleConnTimeout(90*time.Second),
		httpclient.WithInsecureTLS(settings.InsecureTLS),
	)
	rend := renderer.NewCommandRenderer(envManager.RendererCmd, settings.FetchTimeout)
	factory := terminals.NewAdapterFactory(terminals.NewHTTPFetcher(httpClient), rend)
	eng := engine.New(reg, factory, engine.WithPolitenessDelay(settings.PolitenessDelay))

	return &Dependencies{
		EnvManager: envManager,
		Config:     cfg,
		Settings:   settings,
		HTTPClient: httpClient,
		Registry:   reg,
		Renderer:   rend,
		Engine:     eng,
		Cache:      newCache(envManager),
	}, nil
}

// newCache falls back to the no-op cache when Redis is not configured or unreachable.
func newCache(envManager *env.Manager) database.ResultCache {
	if !envManager.CacheEnabled() {
		return database.NoopCache{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	redis, err := database.NewRedisConnection(ctx, database.RedisSettings{
		DB:         envManager.RedisDb,
		DBUser:     envManager.RedisUser,
		DBPassword: envManager.RedisPw,
		Host:       envManager.RedisHost,
		Port:       envManager.RedisPort,
		Protocol:   envManager.RedisPrtl,
	})
	if err != nil {
		log.Errorf("redis unavailable, results will not be cached: %v", err)
		return database.NoopCache{}
	}
	return redis
}
