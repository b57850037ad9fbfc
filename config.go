package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL       string
	IdempotencyTTL time.Duration

	KafkaBrokers       string
	OrderEventsTopic   string
	PaymentEventsTopic string

	StripeSecretKey     string
	StripeWebhookSecret string
	RazorpayKeyID       string
	RazorpayKeySecret   string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	VerifyTimeout time.Duration
	NotifyTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the process environment wins anyway.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("APP_ENV", "development"),
		PostgresUser:        os.Getenv("POSTGRES_USER"),
		PostgresPassword:    os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:          os.Getenv("POSTGRES_DB"),
		PostgresHost:        os.Getenv("POSTGRES_HOST"),
		PostgresPort:        getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:    getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		RedisURL:            os.Getenv("REDIS_URL"),
		IdempotencyTTL:      getDurationEnv("IDEMPOTENCY_TTL", 24*time.Hour),
		KafkaBrokers:        os.Getenv("KAFKA_BROKERS"),
		OrderEventsTopic:    getEnv("ORDER_EVENTS_TOPIC", "order.events"),
		PaymentEventsTopic:  getEnv("PAYMENT_EVENTS_TOPIC", "payment.events"),
		StripeSecretKey:     os.Getenv("STRIPE_API_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		RazorpayKeyID:       os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:   os.Getenv("RAZORPAY_KEY_SECRET"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnv("SMTP_PORT", "587"),
		SMTPUser:            os.Getenv("SMTP_USER"),
		SMTPPass:            os.Getenv("SMTP_PASS"),
		VerifyTimeout:       getDurationEnv("PROVIDER_VERIFY_TIMEOUT", 10*time.Second),
		NotifyTimeout:       getDurationEnv("NOTIFY_TIMEOUT", 5*time.Second),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
