package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only meant for local development. main warns when it is in use.
const DefaultJWTSecret = "JE SUIS UN SECRET !"

var (
	APP_ENV string
	PORT    string

	DB_DRIVER string
	DB_URL    string

	JWT_SECRET  string
	SESSION_TTL time.Duration

	CORS_ORIGIN string
	API_ROUTE   string
	PAGE_SIZE   int

	REDIS_ADDR     string
	REDIS_PASSWORD string
	REDIS_DB       int

	GOOGLE_CLIENT_ID     string
	GOOGLE_CLIENT_SECRET string
	GOOGLE_REDIRECT_URL  string
)

// LoadEnv reads .env.local then .env (already-set variables win) and fills
// the package-level settings. It returns the files it loaded.
func LoadEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		if err := godotenv.Load(loaded...); err != nil {
			log.Println("Failed to load env files:", err)
		}
	}

	APP_ENV = getEnv("APP_ENV", "development")
	PORT = getEnv("PORT", "8080")

	DB_DRIVER = getEnv("DB_DRIVER", "sqlite")
	if DB_DRIVER == "postgres" {
		DB_URL = mustEnv("DB_URL")
	} else {
		DB_URL = getEnv("DB_URL", "correspondance.db")
	}

	JWT_SECRET = getEnv("JWT_SECRET", DefaultJWTSecret)
	SESSION_TTL = getDuration("SESSION_TTL", 24*time.Hour)

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	API_ROUTE = getEnv("API_ROUTE", "/api")
	PAGE_SIZE = getInt("PAGE_SIZE", 10)
	if PAGE_SIZE == 0 {
		PAGE_SIZE = 10
	}

	REDIS_ADDR = getEnv("REDIS_ADDR", "")
	REDIS_PASSWORD = getEnv("REDIS_PASSWORD", "")
	REDIS_DB = getInt("REDIS_DB", 0)

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")

	return loaded
}

// GoogleEnabled reports whether the Google sign-in routes should be mounted.
func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
