package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"main/utils"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the service needs. It is loaded once at
// startup and passed explicitly to the components that need it; nothing reads
// the environment after Load returns.
type Config struct {
	Port         string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	JWTExpiry    time.Duration
	UploadDir    string
	APIBaseURL   string
	RedisURL     string
	MaxBodySize  int64
	CookieSecure bool
}

// Load reads the environment (plus an optional .env file) and validates the
// required values. Missing required settings fail fast.
func Load() (*Config, error) {
	if os.Getenv("GO_ENV") != "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using process environment")
		}
	}

	cfg := &Config{
		Port:         utils.GetEnvAsString("PORT", "3001"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      utils.GetEnvAsString("MONGO_DB", "notesapp"),
		JWTSecret:    os.Getenv("JWT_SECRET_KEY"),
		JWTExpiry:    utils.GetEnvAsDuration("JWT_EXPIRATION", 7*24*time.Hour),
		UploadDir:    utils.GetEnvAsString("UPLOAD_DIR", "uploads"),
		APIBaseURL:   os.Getenv("API_BASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		MaxBodySize:  int64(utils.GetEnvAsUint64("MAX_BODY_SIZE", 64<<20)),
		CookieSecure: utils.GetEnvAsBool("COOKIE_SECURE", false),
	}

	var missing []string
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	return cfg, nil
}
