// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Throttle aplica um token bucket global na frente de todas as rotas, para
// que nenhum conjunto de clientes sature o processo antes mesmo da checagem
// por destinatário. Com rps <= 0 o middleware vira passthrough.
func Throttle(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 || burst <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	lim := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
