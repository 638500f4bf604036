package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the trait estimator service
type Config struct {
	Server    ServerConfig
	Artifacts ArtifactConfig
	Log       LogConfig
}

// ServerConfig holds HTTP surface configuration
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxUploadBytes int64
	EnableUI       bool
}

// ArtifactConfig locates the fitted vectorizer/model pair on disk
type ArtifactConfig struct {
	Dir            string
	VectorizerFile string
	ModelFile      string
	ScalerFile     string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:           GetStringEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:    GetDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   GetDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			MaxUploadBytes: int64(GetIntEnv("MAX_UPLOAD_BYTES", 10<<20)),
			EnableUI:       GetBoolEnv("SERVER_ENABLE_UI", true),
		},
		Artifacts: ArtifactConfig{
			Dir:            GetStringEnv("ARTIFACT_DIR", "."),
			VectorizerFile: GetStringEnv("ARTIFACT_VECTORIZER", "tfidf_b5.json"),
			ModelFile:      GetStringEnv("ARTIFACT_MODEL", "bigfive_ridge.json"),
			ScalerFile:     GetStringEnv("ARTIFACT_SCALER", "label_minmax.json"),
		},
		Log: LogConfig{
			Level:  GetStringEnv("LOG_LEVEL", "info"),
			Format: GetStringEnv("LOG_FORMAT", "text"),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
