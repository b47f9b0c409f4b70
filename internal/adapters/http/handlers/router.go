package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appmiddleware "github.com/jordan12251/telegram-form-api/internal/adapters/http/middleware"
)

// RouterConfig reúne o que a camada HTTP precisa além dos handlers.
type RouterConfig struct {
	AllowedOrigin string
	GlobalRPS     float64
	GlobalBurst   int
}

// NewRouter monta o roteador chi com os middlewares ambientes e as rotas da
// API.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Throttle(cfg.GlobalRPS, cfg.GlobalBurst))

	if cfg.AllowedOrigin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{cfg.AllowedOrigin},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", OwnerKeyHeader},
		}))
	}

	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/send/{code}", h.SendForm)
		r.Post("/photo/{code}", h.SendPhoto)
		r.Get("/code/{chatID}", h.EncodeChat)
	})

	return r
}
