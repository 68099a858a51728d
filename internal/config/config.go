package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Collaborator credentials. All optional: absence degrades the dependent
	// feature instead of failing startup.
	GitHubToken  string // unauthenticated (rate-limited) tracker access when empty
	GeminiAPIKey string // fallback query analysis, no AI responses/fixes when empty
	HFToken      string // reported on /health only

	// Collaborator endpoints (overridable for tests / proxies)
	GitHubAPIURL        string
	GeminiAPIURL        string
	StackExchangeAPIURL string
	GeminiModel         string

	// Cache
	RedisURL string        // optional; in-process cache when empty
	CacheTTL time.Duration // env: CACHE_TTL_SECONDS, default 300

	// Analytics
	DatabaseURL string // optional; lookup analytics disabled when empty

	// CORS
	CORSOrigins string // Comma-separated allowed origins
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:          getEnv("ENV", "development"),
		ServerAddr:   getEnv("SERVER_ADDR", ":3000"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:3000"),
		GitHubToken:  getEnv("GITHUB_TOKEN", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		HFToken:      getEnv("HF_TOKEN", ""),

		GitHubAPIURL:        getEnv("GITHUB_API_URL", "https://api.github.com"),
		GeminiAPIURL:        getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
		StackExchangeAPIURL: getEnv("STACKEXCHANGE_API_URL", "https://api.stackexchange.com"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),

		RedisURL:    getEnv("REDIS_URL", ""),
		CacheTTL:    time.Duration(getIntEnv("CACHE_TTL_SECONDS", 300)) * time.Second,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// HasGitHubToken reports whether authenticated tracker access is configured.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// HasGemini reports whether the AI collaborator is configured.
func (c *Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}
