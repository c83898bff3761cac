package common

import (
	"os"
	"strconv"
	"time"

	"github.com/marketsense/jobbrief/constants"
)

// Config holds all application configuration
type Config struct {
	Oracle     OracleConfig
	Extraction ExtractionConfig
	Metrics    MetricsConfig
}

// OracleConfig holds the settings for the extraction oracle transport.
type OracleConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	RequestsPerSec float64
	Burst          int
}

// ExtractionConfig holds pipeline tunables.
type ExtractionConfig struct {
	ChunkSize    int
	ChunkOverlap int

	CondenseThresholdTokens int
	CondenseChunkTokens     int
	CondenseOverlapTokens   int

	EntityTimeout    time.Duration
	BriefTimeout     time.Duration
	SummarizeTimeout time.Duration

	// BatchTimeout bounds a whole Extract call; zero disables it and leaves
	// the slowest chunk's own timeout as the effective ceiling.
	BatchTimeout time.Duration

	// MaxInFlight caps concurrent oracle calls per batch; zero means no cap.
	MaxInFlight int
}

// MetricsConfig holds the settings for the metrics event sink.
type MetricsConfig struct {
	// SQLitePath, when set, points the sink at a persistent event store.
	SQLitePath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			BaseURL:        getEnv("ORACLE_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("ORACLE_MODEL", constants.DefaultModel),
			RequestsPerSec: getEnvAsFloat64("ORACLE_REQS_PER_SEC", 0.5),
			Burst:          getEnvAsInt("ORACLE_BURST", 1),
		},
		Extraction: ExtractionConfig{
			ChunkSize:               getEnvAsInt("EXTRACT_CHUNK_SIZE", constants.ChunkSizeDefault),
			ChunkOverlap:            getEnvAsInt("EXTRACT_CHUNK_OVERLAP", constants.ChunkOverlapDefault),
			CondenseThresholdTokens: getEnvAsInt("CONDENSE_THRESHOLD_TOKENS", constants.CondenseThresholdTokens),
			CondenseChunkTokens:     getEnvAsInt("CONDENSE_CHUNK_TOKENS", constants.CondenseChunkTokens),
			CondenseOverlapTokens:   getEnvAsInt("CONDENSE_OVERLAP_TOKENS", constants.CondenseOverlapTokens),
			EntityTimeout:           getEnvAsDuration("EXTRACT_ENTITY_TIMEOUT", constants.EntityCallTimeout),
			BriefTimeout:            getEnvAsDuration("EXTRACT_BRIEF_TIMEOUT", constants.BriefCallTimeout),
			SummarizeTimeout:        getEnvAsDuration("EXTRACT_SUMMARIZE_TIMEOUT", constants.SummarizeCallTimeout),
			BatchTimeout:            getEnvAsDuration("EXTRACT_BATCH_TIMEOUT", 0),
			MaxInFlight:             getEnvAsInt("EXTRACT_MAX_IN_FLIGHT", 0),
		},
		Metrics: MetricsConfig{
			SQLitePath: getEnv("METRICS_SQLITE_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
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

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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
