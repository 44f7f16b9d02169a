package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the API service
type Config struct {
	// Server
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	LogLevel        string        `yaml:"log_level"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Generation runtime
	OllamaHost string `yaml:"ollama_host"`

	// Optional backends. Empty disables them.
	RedisURL     string `yaml:"redis_url"`
	NATSURL      string `yaml:"nats_url"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`

	// Protection for the generation endpoints. Zero disables them.
	RateLimitPerMinute      int `yaml:"rate_limit_per_minute"`
	CircuitBreakerThreshold int `yaml:"circuit_breaker_threshold"`
}

func defaults() Config {
	return Config{
		Port:            "8000",
		Environment:     "development",
		LogLevel:        "info",
		ShutdownTimeout: 30 * time.Second,
		OllamaHost:      "http://ollama:11434",
	}
}

// Load reads an optional YAML file at path, then applies environment
// overrides. An empty path yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("GO_ENV", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.NATSURL = getEnv("NATS_URL", cfg.NATSURL)
	cfg.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)

	var err error
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute); err != nil {
		return nil, err
	}
	if cfg.CircuitBreakerThreshold, err = getEnvInt("CIRCUIT_BREAKER_THRESHOLD", cfg.CircuitBreakerThreshold); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(c.Port)
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("config: invalid port %q", c.Port)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: rate_limit_per_minute must be >= 0, got %d", c.RateLimitPerMinute)
	}
	if c.CircuitBreakerThreshold < 0 {
		return fmt.Errorf("config: circuit_breaker_threshold must be >= 0, got %d", c.CircuitBreakerThreshold)
	}
	return nil
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
