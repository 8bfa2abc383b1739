package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	LogLevel    string
	// Resume storage
	StorageDriver  string // "s3" or "local"
	StorageDir     string // root directory for the local driver
	ResumeBucket   string
	MaxUploadBytes int64
	// S3-compatible storage (AWS, Wasabi, MinIO, Supabase S3 gateway)
	S3Provider        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	WasabiEndpoint    string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Upload Limiting Configuration
	UploadLimitPerMinute  int
	UploadLimitPerDay     int
	APIRateLimitPerMinute int
	// Document processing
	ClamAVAddress       string
	UnidocLicenseAPIKey string
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// Resume storage
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "s3")),
		StorageDir:     getEnv("STORAGE_DIR", "./data/blobs"),
		ResumeBucket:   getEnv("RESUME_BUCKET", "resumes"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024), // 10 MB
		// S3
		S3Provider:        strings.ToLower(getEnv("S3_PROVIDER", "aws")),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		WasabiEndpoint:    getEnv("WASABI_ENDPOINT", ""),
		// Redis/Upstash
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Upload limiting
		UploadLimitPerMinute:  getEnvInt("UPLOAD_LIMIT_PER_MINUTE", 10),    // per IP
		UploadLimitPerDay:     getEnvInt("UPLOAD_LIMIT_PER_DAY", 50),       // per applicant
		APIRateLimitPerMinute: getEnvInt("API_RATE_LIMIT_PER_MINUTE", 100), // per IP on /v1/ats
		// Document processing
		ClamAVAddress:       getEnv("CLAMAV_ADDRESS", ""),
		UnidocLicenseAPIKey: getEnv("UNIDOC_LICENSE_API_KEY", ""),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Upload limiting is disabled.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}
