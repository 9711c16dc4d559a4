package middleware

import (
	"context"
	"net/http"

	"github.com/neckchi/vesseleta/configs/domain"
	"github.com/neckchi/vesseleta/internal/exceptions"
)

type settingsContextKey string

const AppSettingsKey settingsContextKey = "appSettings"

// GetAppConfig attaches the merged settings of serviceName to the request. The settings
// are decoded per request so a config reload shows up without a restart.
func GetAppConfig(cfg *domain.Config, serviceName string) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			settings, err := cfg.Settings(serviceName)
			if err != nil {
				exceptions.InternalErrorHandler(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), AppSettingsKey, settings)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// AppSettings returns the settings set by GetAppConfig, or the defaults.
func AppSettings(ctx context.Context) domain.Settings {
	if settings, ok := ctx.Value(AppSettingsKey).(domain.Settings); ok {
		return settings
	}
	return domain.DefaultSettings()
}
