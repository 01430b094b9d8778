package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port            string
	DatabasePath    string
	SpotifyBaseURL  string
	CatalogBaseURL  string
	AuthBaseURL     string
	SearchRateLimit float64
	LogLevel        string
}

// Load reads configuration from .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	rateLimit, err := strconv.ParseFloat(getEnv("SEARCH_RATE_LIMIT", "5"), 64)
	if err != nil || rateLimit <= 0 {
		rateLimit = 5
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "playlists.db"),
		SpotifyBaseURL:  getEnv("SPOTIFY_BASE_URL", "https://api.spotify.com/v1"),
		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", "https://saavnapi-nine.vercel.app"),
		AuthBaseURL:     getEnv("AUTH_BASE_URL", "http://localhost:9999"),
		SearchRateLimit: rateLimit,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
