package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port           string
	AllowedOrigins string

	// Environment
	Environment string
	LogLevel    string
	ServiceName string

	// Database. Empty keeps accounts and appointments in memory.
	DatabaseURL string

	// Redis. Empty keeps sessions in memory.
	RedisURL   string
	SessionTTL time.Duration

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Catalog
	CatalogFile string

	// Label analysis
	Analyzer            string
	AnalysisUploadDelay time.Duration
	AnalysisCameraDelay time.Duration
	AnalysisFailureRate float64

	// Booking
	BookingDelay       time.Duration
	BookingFailureRate float64

	// Geolocation
	GeoTimeout time.Duration

	// Google Maps
	GoogleMapsAPIKey string

	// SMTP Email
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFromAddr string
	SMTPFromName string
	SMTPEnabled  bool

	// S3 label archive
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3Region    string
}

func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", "*"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ServiceName:         getEnv("SERVICE_NAME", "healthy-food"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		SessionTTL:          getDurationEnv("SESSION_TTL_HOURS", 24) * time.Hour,
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production-please"),
		JWTExpiry:           getDurationEnv("JWT_EXPIRY_HOURS", 24) * time.Hour,
		CatalogFile:         getEnv("CATALOG_FILE", ""),
		Analyzer:            getEnv("ANALYZER", "mock"),
		AnalysisUploadDelay: getDurationEnv("ANALYSIS_UPLOAD_DELAY_MS", 2000) * time.Millisecond,
		AnalysisCameraDelay: getDurationEnv("ANALYSIS_CAMERA_DELAY_MS", 1500) * time.Millisecond,
		AnalysisFailureRate: getFloatEnv("ANALYSIS_FAILURE_RATE", 0),
		BookingDelay:        getDurationEnv("BOOKING_DELAY_MS", 2000) * time.Millisecond,
		BookingFailureRate:  getFloatEnv("BOOKING_FAILURE_RATE", 0),
		GeoTimeout:          getDurationEnv("GEO_TIMEOUT_SECONDS", 10) * time.Second,
		GoogleMapsAPIKey:    getEnv("GOOGLE_API_KEY_MAPS", ""),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getIntEnv("SMTP_PORT", 587),
		SMTPUser:            getEnv("SMTP_USER", ""),
		SMTPPassword:        getEnv("SMTP_PASSWORD", ""),
		SMTPFromAddr:        getEnv("SMTP_FROM_ADDR", "noreply@healthyfood.app"),
		SMTPFromName:        getEnv("SMTP_FROM_NAME", "HealthyFood"),
		SMTPEnabled:         getBoolEnv("SMTP_ENABLED", false),
		S3Endpoint:          getEnv("S3_ENDPOINT", ""),
		S3AccessKey:         getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:         getEnv("S3_SECRET_KEY", ""),
		S3Bucket:            getEnv("S3_BUCKET", "labels"),
		S3UseSSL:            getBoolEnv("S3_USE_SSL", false),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return time.Duration(intVal)
		}
	}
	return time.Duration(defaultValue)
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// S3Enabled reports whether label images should be archived
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != ""
}
