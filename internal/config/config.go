// Package config centraliza o carregamento de configurações da aplicação.
// O resultado é imutável e construído uma única vez no startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
)

type Config struct {
	Server      ServerConfig
	Telegram    TelegramConfig
	Access      AccessConfig
	Codec       CodecConfig
	RateLimiter RateLimiterConfig
	Storage     StorageConfig
}

type ServerConfig struct {
	Port          string
	AllowedOrigin string
	GlobalRPS     float64
	GlobalBurst   int
}

type TelegramConfig struct {
	BotToken string
}

type AccessConfig struct {
	OwnerKey       string
	AllowedChatIDs []string
	// OpenWhenEmpty libera qualquer destino quando a allow-list está vazia.
	// O padrão é fechado.
	OpenWhenEmpty bool
}

type CodecConfig struct {
	Length int
}

type RateLimiterConfig struct {
	Rule domain.RateLimitRule
}

type StorageConfig struct {
	Type  string
	Redis RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	botToken := strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	if botToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}

	server, err := buildServerConfig()
	if err != nil {
		return Config{}, err
	}

	access, err := buildAccessConfig()
	if err != nil {
		return Config{}, err
	}

	codec, err := buildCodecConfig()
	if err != nil {
		return Config{}, err
	}

	rateLimiter, err := buildRateLimiterConfig()
	if err != nil {
		return Config{}, err
	}

	storageType := getEnv("STORAGE_TYPE", "memory")

	redisConfig, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Server:      server,
		Telegram:    TelegramConfig{BotToken: botToken},
		Access:      access,
		Codec:       codec,
		RateLimiter: rateLimiter,
		Storage: StorageConfig{
			Type:  storageType,
			Redis: redisConfig,
		},
	}, nil
}

func buildServerConfig() (ServerConfig, error) {
	rps, err := strconv.ParseFloat(getEnv("GLOBAL_RPS", "50"), 64)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid GLOBAL_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("GLOBAL_BURST", "100"))
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid GLOBAL_BURST: %w", err)
	}

	return ServerConfig{
		Port:          getEnv("SERVER_PORT", "8080"),
		AllowedOrigin: strings.TrimSpace(os.Getenv("ALLOWED_ORIGIN")),
		GlobalRPS:     rps,
		GlobalBurst:   burst,
	}, nil
}

func buildAccessConfig() (AccessConfig, error) {
	openWhenEmpty := false
	if raw := strings.TrimSpace(os.Getenv("ALLOW_ALL_WHEN_EMPTY")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return AccessConfig{}, fmt.Errorf("invalid ALLOW_ALL_WHEN_EMPTY: %w", err)
		}
		openWhenEmpty = parsed
	}

	return AccessConfig{
		OwnerKey:       strings.TrimSpace(os.Getenv("OWNER_KEY")),
		AllowedChatIDs: splitList(os.Getenv("ALLOWED_CHAT_IDS")),
		OpenWhenEmpty:  openWhenEmpty,
	}, nil
}

func buildCodecConfig() (CodecConfig, error) {
	length, err := strconv.Atoi(getEnv("CODE_LENGTH", strconv.Itoa(domain.DefaultCodeWidth)))
	if err != nil {
		return CodecConfig{}, fmt.Errorf("invalid CODE_LENGTH: %w", err)
	}
	if length <= 0 || length > domain.MaxCodeWidth {
		return CodecConfig{}, fmt.Errorf("CODE_LENGTH must be between 1 and %d", domain.MaxCodeWidth)
	}
	return CodecConfig{Length: length}, nil
}

func buildRateLimiterConfig() (RateLimiterConfig, error) {
	requests, err := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "20"))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	windowSeconds, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	if err != nil {
		return RateLimiterConfig{}, fmt.Errorf("invalid RATE_LIMIT_WINDOW_SECONDS: %w", err)
	}
	if requests <= 0 || windowSeconds <= 0 {
		return RateLimiterConfig{}, fmt.Errorf("rate limit values must be positive")
	}

	return RateLimiterConfig{
		Rule: domain.RateLimitRule{
			Requests: requests,
			Window:   time.Duration(windowSeconds) * time.Second,
		},
	}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	host := getEnv("REDIS_HOST", "localhost")
	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return RedisConfig{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
