package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neckchi/vesseleta/internal/database"
	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/neckchi/vesseleta/internal/middleware"
	"github.com/neckchi/vesseleta/internal/schema"
	log "github.com/sirupsen/logrus"
)

const resultNamespace = "eta result"

// cacheable leaves failed fetches out of the cache so the next call tries the terminal again.
func cacheable(r schema.ResolutionResult) bool {
	return r.Success && r.SearchMethod != schema.SearchFetchFailed
}

func ResolveHandler(resolver Resolver, cache database.ResultCache) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queryParams, _ := r.Context().Value(middleware.ResolveQueryParamsKey).(schema.QueryParams)
		settings := middleware.AppSettings(r.Context())
		key := database.ResultKey(string(queryParams.Terminal), queryParams.Vessel)

		if cached, ok := cache.Get(r.Context(), resultNamespace, key); ok {
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(cached)
			return
		}

		result, err := resolver.Resolve(r.Context(), queryParams.Terminal, queryParams.Vessel)
		if errors.Is(err, exceptions.ErrUnknownTerminal) {
			exceptions.NotFoundErrorHandler(w, err)
			return
		}
		if err != nil {
			exceptions.InternalErrorHandler(w, err)
			return
		}
		body, err := json.Marshal(result)
		if err != nil {
			exceptions.InternalErrorHandler(w, err)
			return
		}
		w.Header().Set("X-Cache", "MISS")
		_, _ = w.Write(body)

		if cacheable(result) && settings.CacheTTL > 0 {
			cache.AddToChannel(resultNamespace, key, body, settings.CacheTTL)
			go func(ctx context.Context) {
				if err := cache.Set(ctx, key); err != nil {
					log.Errorf("cache flush failed: %v", err)
				}
			}(context.WithoutCancel(r.Context()))
		}
	})
}
