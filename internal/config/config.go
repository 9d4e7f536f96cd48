package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MinSessionLifetime is the shortest session lifetime the forum accepts.
const MinSessionLifetime = 30 * 24 * time.Hour

type LogLevel string

const (
	Debug   LogLevel = "debug"
	Info    LogLevel = "info"
	Notice  LogLevel = "notice"
	Warning LogLevel = "warning"
	Error   LogLevel = "error"
)

// Config holds all forum configuration loaded from environment variables.
type Config struct {
	Port            string
	DBPath          string
	TemplateDir     string
	StaticDir       string
	LogLevel        LogLevel
	LogFolder       string
	SessionSecret   string
	SessionBackend  string
	SessionLifetime time.Duration
	CleanupSpec     string
	RedisAddr       string
	RedisPassword   string
	AdminPassword   string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		DBPath:          getenv("DB_PATH", "forum.db"),
		TemplateDir:     getenv("TEMPLATE_DIR", "web/templates"),
		StaticDir:       getenv("STATIC_DIR", "web/static"),
		LogLevel:        LogLevel(getenv("LOG_LEVEL", string(Info))),
		LogFolder:       getenv("LOG_FOLDER", ""),
		SessionSecret:   getenv("SESSION_SECRET", ""),
		SessionBackend:  getenv("SESSION_BACKEND", "sqlite"),
		SessionLifetime: sessionLifetime(getenv("SESSION_MAX_AGE_DAYS", "30")),
		CleanupSpec:     getenv("SESSION_CLEANUP_SPEC", "@every 1h"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		AdminPassword:   getenv("ADMIN_PASSWORD", "admin"),
	}
}

func sessionLifetime(days string) time.Duration {
	n, err := strconv.Atoi(days)
	if err != nil {
		return MinSessionLifetime
	}
	d := time.Duration(n) * 24 * time.Hour
	if d < MinSessionLifetime {
		return MinSessionLifetime
	}
	return d
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
