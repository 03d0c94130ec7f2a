package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `validate:"required,oneof=development stage production"`
	LogLevel string `validate:"required,oneof=debug info warn error"`

	Server Server `validate:"required"`

	DatabaseURL string `validate:"required"`

	JWT JWT `validate:"required"`

	Payment Payment `validate:"required"`

	Kafka Kafka

	Elastic Elastic
}

type Server struct {
	Port int `validate:"required,gt=0,lte=65535"`

	ReadTimeout       time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	ReadHeaderTimeout time.Duration `validate:"gt=0"`
	ShutdownTimeout   time.Duration `validate:"gt=0"`
}

type JWT struct {
	AccessSecret  string `validate:"required"`
	RefreshSecret string `validate:"required"`

	AccessTTL  time.Duration `validate:"gt=0"`
	RefreshTTL time.Duration `validate:"gt=0"`
}

type Payment struct {
	BaseURL      string `validate:"required,url"`
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
}

// Kafka and Elastic are optional: empty brokers or an empty URL disable
// event publishing and full-text search respectively.
type Kafka struct {
	Brokers []string
}

type Elastic struct {
	URL      string
	User     string
	Password string
	Index    string
}

func New() Config {
	return Config{
		Env:      env("ENV", "development"),
		LogLevel: env("LOG_LEVEL", "info"),

		Server: Server{
			Port: envInt("SERVER_PORT", 8080),

			ReadTimeout:       envDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ReadHeaderTimeout: envDuration("SERVER_READ_HEADER_TIMEOUT", 3*time.Second),
			ShutdownTimeout:   envDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWT: JWT{
			AccessSecret:  os.Getenv("JWT_SECRET"),
			RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),

			AccessTTL:  envDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: envDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},

		Payment: Payment{
			BaseURL:      env("PAYMENT_BASE_URL", "https://api.sandbox.paypal.com"),
			ClientID:     os.Getenv("PAYMENT_CLIENT_ID"),
			ClientSecret: os.Getenv("PAYMENT_CLIENT_SECRET"),
		},

		Kafka: Kafka{
			Brokers: csv(os.Getenv("KAFKA_BROKERS")),
		},

		Elastic: Elastic{
			URL:      os.Getenv("ES_URL"),
			User:     os.Getenv("ES_USER"),
			Password: os.Getenv("ES_PASSWORD"),
			Index:    env("ES_PRODUCT_INDEX", "products"),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
