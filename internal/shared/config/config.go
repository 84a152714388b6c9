package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	// Remote text-generation API.
	APIKey      string
	APIEndpoint string
	MaxTokens   int           // completion budget, clamped 500-8000
	Temperature float64       // clamped 0.0-1.0
	MaxRetries  int           // clamped 1-5
	LLMTimeout  time.Duration // per-request HTTP timeout, clamped 10-600s

	// Analysis tuning.
	ChunkSize      int           // relevant-excerpt ceiling, clamped 5000-50000
	RequestDelay   time.Duration // pause between topic requests, clamped 1-10s
	AnalysisPrompt string        // direct-mode prompt template

	// Storage.
	DatabaseURL     string
	RedisAddr       string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		APIKey:      os.Getenv("LLM_API_KEY"),
		APIEndpoint: os.Getenv("LLM_API_ENDPOINT"),
		MaxTokens:   clampInt(getEnvInt("LLM_MAX_TOKENS", 4000), 500, 8000),
		Temperature: clampFloat(getEnvFloat("LLM_TEMPERATURE", 0.3), 0.0, 1.0),
		MaxRetries:  clampInt(getEnvInt("LLM_MAX_RETRIES", 3), 1, 5),
		LLMTimeout:  time.Duration(clampInt(getEnvInt("LLM_TIMEOUT_SECONDS", 120), 10, 600)) * time.Second,

		ChunkSize:      clampInt(getEnvInt("ANALYSIS_CHUNK_SIZE", 20000), 5000, 50000),
		RequestDelay:   time.Duration(clampInt(getEnvInt("ANALYSIS_REQUEST_DELAY", 3), 1, 10)) * time.Second,
		AnalysisPrompt: getEnv("ANALYSIS_PROMPT", ""),

		DatabaseURL:     dbURL,
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config %s invalid float: %v", key, err)
		return def
	}
	return val
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
