package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, read from the environment once at
// startup.
type Config struct {
	Port        int
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	// Segmentation service used for background removal.
	SegmentAPIURL string
	SegmentAPIKey string

	// Local artifact store for downloaded and processed product images,
	// served as static files.
	ImageDir  string
	UploadDir string
	PublicURL string // path prefix under which ImageDir is served

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	QuoteFrom    string
	QuoteTo      string
}

// Load reads configuration from the environment. A .env file is honored when
// present. Only DATABASE_URL is mandatory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           envInt("PORT", 8080),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      envDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        envInt("REDIS_DB", 0),
		MinioEndpoint:  envDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: envDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: envDefault("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminUsername:  envDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		SegmentAPIURL:  envDefault("SEGMENT_API_URL", "https://sdk.photoroom.com/v2/edit"),
		SegmentAPIKey:  os.Getenv("SEGMENT_API_KEY"),
		ImageDir:       envDefault("IMAGE_DIR", "public/uploads"),
		UploadDir:      envDefault("UPLOAD_DIR", "tmp/uploads"),
		PublicURL:      envDefault("PUBLIC_IMAGE_PATH", "/uploads"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       envInt("SMTP_PORT", 587),
		SMTPUsername:   os.Getenv("SMTP_USERNAME"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		QuoteFrom:      os.Getenv("QUOTE_FROM"),
		QuoteTo:        os.Getenv("QUOTE_TO"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
