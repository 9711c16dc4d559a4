package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// CreateStack chains middlewares so the first one listed is the outermost.
func CreateStack(xs ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(xs) - 1; i >= 0; i-- {
			next = xs[i](next)
		}
		return next
	}
}
