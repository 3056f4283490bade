package config

import (
	"log"
	"os"
	"strconv"
)

const (
	defaultDBPath         = "./dev.db"
	defaultPort           = "8080"
	defaultMaxUploadBytes = 100 << 20 // hard cap on uploaded geometry files
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port                string
	DBPath              string
	CatalogPath         string
	APITokenSecret      string
	ExternalAnalyzerURL string
	MaxUploadBytes      int64
	LogLevel            string
	DevMode             bool
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Port:                os.Getenv("PORT"),
		DBPath:              os.Getenv("DB_PATH"),
		CatalogPath:         os.Getenv("CATALOG_PATH"),
		APITokenSecret:      os.Getenv("API_TOKEN_SECRET"),
		ExternalAnalyzerURL: os.Getenv("EXTERNAL_ANALYZER_URL"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
		DevMode:             os.Getenv("APP_ENV") != "production",
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.MaxUploadBytes = defaultMaxUploadBytes
	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 {
			log.Printf("warning: ignoring invalid MAX_UPLOAD_BYTES=%q", raw)
		} else {
			cfg.MaxUploadBytes = v
		}
	}

	if cfg.APITokenSecret == "" {
		log.Print("warning: API_TOKEN_SECRET is not set, API is unauthenticated")
	}

	return cfg
}

// IsDev reports whether the process runs in development mode, where
// migrations are applied automatically at startup.
func (c Config) IsDev() bool {
	return c.DevMode
}
