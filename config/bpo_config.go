package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string
	MongoDBURL  string
	MongoDBName string

	// JWT
	JWTSecret string

	// Routing advisor
	RuleCacheTTL      time.Duration
	AgentCandidates   int
	ResponseLimit     int
	GenericResponses  int
	SimilarCaseLimit  int
	ReportWindowHours int

	// Decision log circuit breaker
	BreakerFailures int
	BreakerCooldown time.Duration

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "bpo"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", ""),

		// Routing advisor
		RuleCacheTTL:      time.Duration(getEnvInt("RULE_CACHE_TTL_SEC", 60)) * time.Second,
		AgentCandidates:   getEnvInt("AGENT_CANDIDATE_LIMIT", 10),
		ResponseLimit:     getEnvInt("RESPONSE_TEMPLATE_LIMIT", 3),
		GenericResponses:  getEnvInt("GENERIC_RESPONSE_LIMIT", 2),
		SimilarCaseLimit:  getEnvInt("SIMILAR_CASE_LIMIT", 5),
		ReportWindowHours: getEnvInt("REPORT_WINDOW_HOURS", 24),

		// Decision log circuit breaker
		BreakerFailures: getEnvInt("DECISION_BREAKER_FAILURES", 5),
		BreakerCooldown: time.Duration(getEnvInt("DECISION_BREAKER_COOLDOWN_SEC", 30)) * time.Second,

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
