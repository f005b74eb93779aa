package config

import (
	"fmt"
	"os"
)

type Config struct {
	HTTPAddr    string
	DatabaseDSN string
	RedisAddr   string
	JWTSecret   string

	PaystackSecretKey string
	PaystackBaseURL   string
	CallbackURL       string

	UploadDir string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	AdminEmail   string

	BaseURL string // public URL of this service, used in verification links
}

func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DatabaseDSN: getenv("DATABASE_DSN", "host=localhost user=app password=secret dbname=farmstore port=5432 sslmode=disable"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getenv("JWT_SECRET", ""),

		PaystackSecretKey: getenv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:   getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		CallbackURL:       getenv("PAYSTACK_CALLBACK_URL", "http://localhost:8080/payment/verify"),

		UploadDir: getenv("UPLOAD_DIR", "./uploads/products"),

		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		FromEmail:    getenv("FROM_EMAIL", "no-reply@jjhalalfarms.com"),
		AdminEmail:   getenv("ADMIN_EMAIL", ""),

		BaseURL: getenv("BASE_URL", "http://localhost:8080"),
	}
}

// Validate checks the values the server cannot run without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.PaystackSecretKey == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is not set")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
