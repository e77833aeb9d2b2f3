package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	once   sync.Once
	loaded *Config
)

// Config holds all service configuration, sourced from the environment.
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Store    StoreConfig
	Webhook  WebhookConfig
	Template TemplateConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Addr string
}

// RedisConfig configures the asynq broker. An empty Addr means background
// work runs in-process instead of through Redis.
type RedisConfig struct {
	Addr string
	DB   int
}

type StoreConfig struct {
	Path string
}

type WebhookConfig struct {
	GenerateURL string
	ChatURL     string
	Timeout     time.Duration
}

type TemplateConfig struct {
	Path string
}

type WorkerConfig struct {
	Concurrency int
}

// Load reads configuration once, preferring a .env file when present and
// falling back to process environment variables.
func Load() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, falling back to environment variables")
		}

		loaded = &Config{
			Server: ServerConfig{
				Addr: getEnv("SERVER_ADDR", ":8080"),
			},
			Redis: RedisConfig{
				Addr: getEnv("REDIS_ADDR", ""),
				DB:   getEnvAsInt("REDIS_DB", 0),
			},
			Store: StoreConfig{
				Path: getEnv("STORE_PATH", "demand_letters.db"),
			},
			Webhook: WebhookConfig{
				GenerateURL: getEnv("WEBHOOK_GENERATE_URL", ""),
				ChatURL:     getEnv("WEBHOOK_CHAT_URL", ""),
				Timeout:     getEnvAsDuration("WEBHOOK_TIMEOUT", 2*time.Minute),
			},
			Template: TemplateConfig{
				Path: getEnv("TEMPLATE_PATH", "template.docx"),
			},
			Worker: WorkerConfig{
				Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 10),
			},
		}
	})
	return loaded
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
