package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Known provider names accepted in RELAY_PROVIDERS.
const (
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Relay         RelayConfig
	Providers     ProvidersConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// RelayConfig holds failover relay configuration
type RelayConfig struct {
	// Providers is the failover priority order. The first name is tried
	// first; a single entry runs the relay in single-provider mode.
	Providers []string

	// MaxBodyBytes caps inbound JSON request bodies.
	MaxBodyBytes int64
}

// ProvidersConfig holds LLM provider configurations
type ProvidersConfig struct {
	Groq      GroqConfig
	Gemini    GeminiConfig
	Anthropic AnthropicConfig
}

// GroqConfig holds Groq provider configuration.
// Groq exposes an OpenAI-compatible chat completions API.
type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiConfig holds Google Gemini provider configuration
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic provider configuration
type AnthropicConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// CORSConfig holds the fixed cross-origin allow-list
type CORSConfig struct {
	AllowedOrigins []string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists; real environment variables win.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
		},
		Relay: RelayConfig{
			Providers:    getEnvAsSlice("RELAY_PROVIDERS", []string{ProviderGroq, ProviderGemini, ProviderAnthropic}),
			MaxBodyBytes: int64(getEnvAsInt("MAX_BODY_BYTES", 10*1024*1024)),
		},
		Providers: ProvidersConfig{
			Groq: GroqConfig{
				APIKey:  getEnv("GROQ_API_KEY", ""),
				BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
				Model:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
				Timeout: getEnvAsDuration("GROQ_TIMEOUT", 60*time.Second),
			},
			Gemini: GeminiConfig{
				APIKey:  getEnv("GEMINI_API_KEY", ""),
				BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
				Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
				Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
			},
			Anthropic: AnthropicConfig{
				APIKey:  getEnv("ANTHROPIC_API_KEY", ""),
				Model:   getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
				Timeout: getEnvAsDuration("ANTHROPIC_TIMEOUT", 60*time.Second),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5173",
			}),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if len(c.Relay.Providers) == 0 {
		return fmt.Errorf("at least one relay provider must be configured: set RELAY_PROVIDERS")
	}

	seen := make(map[string]bool, len(c.Relay.Providers))
	for _, name := range c.Relay.Providers {
		switch name {
		case ProviderGroq, ProviderGemini, ProviderAnthropic:
		default:
			return fmt.Errorf("unknown relay provider %q: valid names are %s, %s, %s",
				name, ProviderGroq, ProviderGemini, ProviderAnthropic)
		}
		if seen[name] {
			return fmt.Errorf("relay provider %q listed more than once", name)
		}
		seen[name] = true
	}

	if c.Relay.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}

	// Credential validation (required in production; in development vendors
	// without keys are skipped at startup with a warning)
	if c.IsProduction() {
		if c.Providers.Groq.APIKey == "" &&
			c.Providers.Gemini.APIKey == "" &&
			c.Providers.Anthropic.APIKey == "" {
			return fmt.Errorf("at least one LLM provider credential must be configured in production")
		}
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS allowed origins must not be empty")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 5000)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 5000
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma-separated env var, trimming whitespace and
// dropping empty entries.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
