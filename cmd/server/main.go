package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jordan12251/telegram-form-api/internal/adapters/delivery/telegram"
	"github.com/jordan12251/telegram-form-api/internal/adapters/http/handlers"
	memorystorage "github.com/jordan12251/telegram-form-api/internal/adapters/storage/memory"
	redisstorage "github.com/jordan12251/telegram-form-api/internal/adapters/storage/redis"
	"github.com/jordan12251/telegram-form-api/internal/config"
	"github.com/jordan12251/telegram-form-api/internal/core/ports"
	"github.com/jordan12251/telegram-form-api/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	storage, closeFn, err := initStorage(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to init storage: %v", err)
	}
	defer closeFn()

	limiter, err := services.NewRateLimiterService(storage, cfg.RateLimiter.Rule)
	if err != nil {
		log.Fatalf("failed to create limiter: %v", err)
	}

	policy := services.NewAccessPolicy(cfg.Access.OwnerKey, cfg.Access.AllowedChatIDs, cfg.Access.OpenWhenEmpty)

	messenger, err := telegram.New(telegram.Config{Token: cfg.Telegram.BotToken})
	if err != nil {
		log.Fatalf("failed to create telegram client: %v", err)
	}

	gateway, err := services.NewGatewayService(policy, limiter, messenger, cfg.Codec.Length)
	if err != nil {
		log.Fatalf("failed to create gateway: %v", err)
	}

	router := handlers.NewRouter(handlers.New(gateway), handlers.RouterConfig{
		AllowedOrigin: cfg.Server.AllowedOrigin,
		GlobalRPS:     cfg.Server.GlobalRPS,
		GlobalBurst:   cfg.Server.GlobalBurst,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil {
			errCh <- err
		}
	}()

	log.Printf("gateway listening on :%s (storage=%s, window=%s, max=%d)",
		cfg.Server.Port, cfg.Storage.Type, cfg.RateLimiter.Rule.Window, cfg.RateLimiter.Rule.Requests)

	select {
	case <-ctx.Done():
		log.Println("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func initStorage(cfg config.StorageConfig) (ports.Storage, func(), error) {
	switch cfg.Type {
	case "memory":
		storage := memorystorage.New()
		janitorCtx, cancel := context.WithCancel(context.Background())
		storage.StartJanitor(janitorCtx)
		return storage, cancel, nil
	case "redis":
		redisCfg := redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		storage, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if err := storage.Close(); err != nil {
				log.Printf("failed to close redis storage: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
