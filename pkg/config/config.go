package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend selects which document-store implementation the storefront runs
// against. "memory" keeps everything in-process and is what local dev and the
// tests use; "firestore" talks to the managed backend.
const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	Backend             string
	FirestoreProject    string
	FirestoreCredsFile  string
	IdentityAPIKey      string
	RedisAddr           string
	RedisDB             int
	AdminUIDs           []string
	CheckoutConfirmWait time.Duration
}

func Load() Config {
	// Best effort; a missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	return Config{
		AppEnv:              getEnv("APP_ENV", "dev"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		Backend:             getEnv("STORE_BACKEND", BackendMemory),
		FirestoreProject:    getEnv("FIRESTORE_PROJECT", "ecospha-organics"),
		FirestoreCredsFile:  getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		IdentityAPIKey:      getEnv("IDENTITY_API_KEY", ""),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		AdminUIDs:           splitList(getEnv("ADMIN_UIDS", "")),
		CheckoutConfirmWait: getEnvDuration("CHECKOUT_CONFIRM_WAIT", 2*time.Second),
	}
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}

	return d
}
