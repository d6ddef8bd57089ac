package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Insights & Workflows API service.
type Config struct {
	Port      int
	Version   string
	Database  DatabaseConfig
	Auth      AuthConfig
	OpenAI    OpenAIConfig
	CORS      CORSConfig
	Telemetry TelemetryConfig
}

// DatabaseConfig configures the DynamoDB client and table layout.
// When AccessKeyID is empty the server falls back to the in-memory store
// (local dev, tests).
type DatabaseConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the DynamoDB endpoint (dynamodb-local).
	Endpoint       string
	UsersTable     string
	CatalogTable   string
	WorkflowsTable string
	EmailIndex     string
}

type AuthConfig struct {
	// JWTSecret signs both session cookies. HS256.
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int
}

// OpenAIConfig configures the chat completion relay.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

type CORSConfig struct {
	// AllowedOrigins must be explicit hosts: the cookies are cross-site
	// with credentials, so a wildcard origin is rejected by browsers.
	AllowedOrigins []string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
// The AWS and OpenAI variable names match the ones the deployment already
// provisions (VITE_* for the store credentials, API_OPENAI for the relay).
func Load() *Config {
	return &Config{
		Port:    envInt("PORT", 3000),
		Version: envStr("IW_VERSION", "0.2.0"),
		Database: DatabaseConfig{
			Region:          envStr("VITE_AWS_REGION", "us-east-1"),
			AccessKeyID:     envStr("VITE_AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: envStr("VITE_AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        envStr("DYNAMODB_ENDPOINT", ""),
			UsersTable:      envStr("USERS_TABLE", "project_users"),
			CatalogTable:    envStr("AGENTS_TABLE", "project_agents"),
			WorkflowsTable:  envStr("WORKFLOWS_TABLE", "project_workflows"),
			EmailIndex:      envStr("EMAIL_INDEX", "email-index"),
		},
		Auth: AuthConfig{
			JWTSecret:  envStr("JWT_SECRET", ""),
			SessionTTL: envDuration("SESSION_TTL", 7*24*time.Hour),
			BcryptCost: envInt("BCRYPT_COST", 10),
		},
		OpenAI: OpenAIConfig{
			APIKey:      envStr("API_OPENAI", ""),
			Model:       envStr("OPENAI_MODEL", "gpt-4o-mini"),
			MaxTokens:   envInt("OPENAI_MAX_TOKENS", 150),
			Temperature: envFloat("OPENAI_TEMPERATURE", 0.7),
		},
		CORS: CORSConfig{
			AllowedOrigins: envList("CORS_ORIGINS",
				"https://insights-and-workflows.onrender.com",
				"http://localhost:8080",
			),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "insights-workflows-api"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback ...string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
