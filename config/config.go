package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Presence   PresenceConfig
	SMS        SMSConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	UploadDir    string // local photo storage when Cloudinary is not configured
}

type DatabaseConfig struct {
	Path string // sqlite file; ":memory:" in tests
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type PresenceConfig struct {
	// StaleAfter is how long an online driver may go without a location
	// update before the listing read path forces them offline.
	StaleAfter time.Duration
}

type SMSConfig struct {
	// CountryCode is stripped from inbound sender numbers before lookup.
	CountryCode string
}

type AdminConfig struct {
	Username string
	Password string // seeded once, bcrypt-hashed at startup
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         env("PORT", "8080"),
			Env:          env("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			UploadDir:    env("UPLOAD_DIR", "./uploads"),
		},
		Database: DatabaseConfig{
			Path: env("DB_PATH", "transport.db"),
		},
		JWT: JWTConfig{
			Secret: env("JWT_SECRET", "change-me-in-production"),
			Expiry: envMinutes("JWT_EXPIRY_MINUTES", 12*time.Hour),
			Issuer: "iitk-transport",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Presence: PresenceConfig{
			StaleAfter: envMinutes("PRESENCE_STALE_MINUTES", 45*time.Minute),
		},
		SMS: SMSConfig{
			CountryCode: env("SMS_COUNTRY_CODE", "+91"),
		},
		Admin: AdminConfig{
			Username: env("ADMIN_USERNAME", "admin"),
			Password: env("ADMIN_PASSWORD", "admin123"),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envMinutes(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return fallback
}
