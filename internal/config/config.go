package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AppBaseURL     string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	SMTPHost     string
	SMTPPort     string
	SMTPEmail    string
	SMTPPassword string

	JWTSecret     string
	JWTTTLMinutes int

	RateLimitReset time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:3000"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "research-files"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPEmail:    os.Getenv("SMTP_EMAIL"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		JWTTTLMinutes: 60,
	}

	if ttl := os.Getenv("JWT_TTL_MINUTES"); ttl != "" {
		var minutes int
		if _, err := fmt.Sscanf(ttl, "%d", &minutes); err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %q", ttl)
		}
		cfg.JWTTTLMinutes = minutes
	}

	var err error
	cfg.RateLimitReset, err = time.ParseDuration(getEnv("RATE_LIMIT_RESET", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RESET: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
