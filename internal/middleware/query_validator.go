package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/neckchi/vesseleta/internal/schema"
	log "github.com/sirupsen/logrus"
)

type queryContextKey string

const (
	ResolveQueryParamsKey queryContextKey = "resolveQueryParams"
	BatchQueryParamsKey   queryContextKey = "batchQueryParams"
)

// allowedParams creates a map of valid JSON field tags for a given struct.
func allowedParams(schemaStruct interface{}) map[string]struct{} {
	val := reflect.ValueOf(schemaStruct)
	jsonTags := make(map[string]struct{}, val.Type().NumField())
	for i := 0; i < val.Type().NumField(); i++ {
		if tag := val.Type().Field(i).Tag.Get("json"); tag != "" {
			jsonTags[tag] = struct{}{}
		}
	}
	return jsonTags
}

// validateQueryParams checks if query parameters are allowed for a given schema.
func validateQueryParams(w http.ResponseWriter, query map[string][]string, schemaStruct interface{}) bool {
	allowed := allowedParams(schemaStruct)
	for param := range query {
		if _, ok := allowed[param]; !ok {
			err := fmt.Errorf("invalid parameter: %s", param)
			log.Error(err)
			exceptions.RequestErrorHandler(w, err)
			return false
		}
	}
	return true
}

// validateStruct validates a struct and returns formatted error if validation fails.
func validateStruct(w http.ResponseWriter, params interface{}) bool {
	err := schema.RequestValidate.Struct(params)
	if err == nil {
		return true
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		exceptions.RequestErrorHandler(w, fmt.Errorf("invalid field value in '%s': %v", e.Field(), e.Value()))
		return false
	}
	exceptions.RequestErrorHandler(w, err)
	return false
}

// ResolveQueryValidation validates query parameters for single resolutions.
func ResolveQueryValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if !validateQueryParams(w, query, schema.QueryParams{}) {
			return
		}

		requestParams := schema.QueryParams{
			Terminal: schema.TerminalCode(strings.ToUpper(strings.TrimSpace(query.Get("terminal")))),
			Vessel:   strings.TrimSpace(query.Get("vessel")),
		}
		if !validateStruct(w, requestParams) {
			return
		}

		ctx := context.WithValue(r.Context(), ResolveQueryParamsKey, requestParams)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BatchQueryValidation validates query parameters for the all-terminal check.
func BatchQueryValidation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if !validateQueryParams(w, query, schema.QueryParamsForBatch{}) {
			return
		}

		requestParams := schema.QueryParamsForBatch{Vessel: strings.TrimSpace(query.Get("vessel"))}
		if !validateStruct(w, requestParams) {
			return
		}

		ctx := context.WithValue(r.Context(), BatchQueryParamsKey, requestParams)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
