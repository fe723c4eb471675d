package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DBDSN          string
	MediaDir       string
	LogFile        string
	CookieSecure   bool
	DefaultShipFee int64 // VND, applied when no zone matches
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DBDSN:          getEnv("DB_DSN", "aolua.db"), // sqlite file in project root
		MediaDir:       getEnv("MEDIA_DIR", "./web/media"),
		LogFile:        getEnv("LOG_FILE", "./aolua.log"),
		CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
		DefaultShipFee: getEnvAsInt64("DEFAULT_SHIP_FEE", 40000),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s COOKIE_SECURE=%v DEFAULT_SHIP_FEE=%d",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.CookieSecure, cfg.DefaultShipFee)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}
