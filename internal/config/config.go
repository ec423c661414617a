package config

import (
	"os"
	"strconv"
	"time"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	StorageLocal      = "local"
	StorageImgBB      = "imgbb"
	StorageCloudinary = "cloudinary"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Database
	DatabaseURL string

	// Auth
	JWTSecret     string
	JWTExpire     time.Duration
	AdminEmail    string
	AdminPassword string

	// Uploads
	MaxFileSize    int64
	UploadDir      string
	StorageBackend string

	ImgBBAPIKey string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// Newsletter SMTP
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "4000"),
		Env:         getEnv("APP_ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpire:     parseDuration(getEnv("JWT_EXPIRE", "24h")),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		MaxFileSize:    parseInt64(getEnv("MAX_FILE_SIZE", "10485760")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageLocal),

		ImgBBAPIKey: getEnv("IMGBB_API_KEY", ""),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: parseInt(getEnv("SMTP_PORT", "587")),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return n
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 587
	}
	return n
}
