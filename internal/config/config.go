package config

import (
	"fmt"
	"log/slog"
	"marketlens/pkg/llm"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	FrontendURL string
	DatabaseURL string
	RedisURL    string
	SessionTTL  time.Duration
	MaxSessions int

	LLMProvider  string
	LLMAPIKey    string
	LLMDeepModel string
	LLMFastModel string
	LLMBaseURL   string
	LLMTimeout   time.Duration
	LLMRPM       int

	FinnhubAPIKey      string
	AlphaVantageAPIKey string
	MassiveAPIKey      string
}

// Load reads the process environment. Call godotenv.Load first to pick up a
// .env file.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SessionTTL:  getDuration("SESSION_TTL", 24*time.Hour),
		MaxSessions: getInt("MAX_SESSIONS", 10000),

		LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", llm.ProviderGemini)),
		LLMBaseURL:  os.Getenv("LLM_BASE_URL"),
		LLMTimeout:  getDuration("LLM_TIMEOUT", 60*time.Second),
		LLMRPM:      getInt("LLM_RPM", 0),

		FinnhubAPIKey:      os.Getenv("FINNHUB_API_KEY"),
		AlphaVantageAPIKey: os.Getenv("ALPHA_VANTAGE_API_KEY"),
		MassiveAPIKey:      os.Getenv("MASSIVE_API_KEY"),
	}

	switch cfg.LLMProvider {
	case llm.ProviderGemini:
		cfg.LLMAPIKey = firstEnv("LLM_API_KEY", "GEMINI_API_KEY", "API_KEY")
	case llm.ProviderOpenAI:
		cfg.LLMAPIKey = firstEnv("LLM_API_KEY", "OPENAI_API_KEY")
	case llm.ProviderAnthropic:
		cfg.LLMAPIKey = firstEnv("LLM_API_KEY", "ANTHROPIC_API_KEY")
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (valid: gemini, openai, anthropic)", cfg.LLMProvider)
	}

	deep, fast := llm.DefaultModels(cfg.LLMProvider)
	cfg.LLMDeepModel = getEnv("LLM_DEEP_MODEL", deep)
	cfg.LLMFastModel = getEnv("LLM_FAST_MODEL", fast)

	return cfg, nil
}

// LLM returns the provider settings for llm.New.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider: c.LLMProvider,
		APIKey:   c.LLMAPIKey,
		BaseURL:  c.LLMBaseURL,
		Timeout:  c.LLMTimeout,
	}
}

// AllowedOrigins is the CORS allow list: the local dev frontend plus
// FRONTEND_URL when set.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
