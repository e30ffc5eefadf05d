package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	JWTSecret    string
	TokenTTLDays int

	// game rules
	SelectionLimit       int
	SelectionWindowHours int
	HiddenNumbers        []int
	RevealAt             time.Time

	// login throttle
	LoginRateLimit  int
	LoginRateWindow time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint   string
	AllowedOrigins []string
}

func Load() Config {
	return Config{
		Env:   getEnv("APP_ENV", "dev"),
		Port:  getEnvInt("PORT", 8080),
		DBURL: buildDBURL(),

		JWTSecret:    getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTLDays: getEnvInt("TOKEN_TTL_DAYS", 7),

		SelectionLimit:       getEnvInt("SELECTION_LIMIT", 3),
		SelectionWindowHours: getEnvInt("SELECTION_WINDOW_HOURS", 24),
		HiddenNumbers:        getEnvInts("HIDDEN_NUMBERS"),
		RevealAt:             getEnvTime("REVEAL_AT"),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: time.Duration(getEnvInt("LOGIN_RATE_WINDOW_SECONDS", 60)) * time.Second,

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "revealhub")
	pass := getEnv("DB_PASSWORD", "revealhub")
	name := getEnv("DB_NAME", "revealhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// TokenTTL is the session token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLDays) * 24 * time.Hour
}

// SelectionWindow is the trailing window the selection cap counts against.
func (c Config) SelectionWindow() time.Duration {
	return time.Duration(c.SelectionWindowHours) * time.Hour
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

// comma separated ints, e.g. HIDDEN_NUMBERS=3,7,9
func getEnvInts(key string) []int {
	raw := os.Getenv(key)

	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))

	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))

		if err != nil {
			fmt.Println(err)
			continue
		}

		out = append(out, n)
	}

	return out
}

func getEnvTime(key string) time.Time {
	raw := os.Getenv(key)

	if raw == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, raw)

	if err != nil {
		fmt.Println(err)
		return time.Time{}
	}

	return t.UTC()
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
