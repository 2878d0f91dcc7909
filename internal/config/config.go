package config

import (
	"os"
	"strconv"
	"strings"
)

// GenAIConfig holds Google GenAI client settings.
// The API key is read from GOOGLE_GENAI_API_KEY and never hardcoded.
type GenAIConfig struct {
	APIKey           string
	AnalysisModel    string
	TranscriptModels []string
}

// MinIOConfig holds object storage settings for the optional MinIO backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables.
type AppConfig struct {
	Port           string
	UploadDir      string
	MaxUploadBytes int
	StorageBackend string // "local" (default) or "minio"
	GenAI          GenAIConfig
	MinIO          MinIOConfig
	Log            LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:           getEnv("PORT", "8080"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 16*1024*1024),
		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		GenAI: GenAIConfig{
			APIKey:           getEnv("GOOGLE_GENAI_API_KEY", ""),
			AnalysisModel:    getEnv("GENAI_ANALYSIS_MODEL", "gemini-pro"),
			TranscriptModels: getEnvList("GENAI_TRANSCRIPT_MODELS", []string{"gemini-3-pro-preview", "gemini-2.5-pro"}),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList parses a comma-separated environment variable.
// Empty items are skipped so trailing commas are harmless.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
