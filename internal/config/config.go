// Package config loads application configuration from environment variables.
package config

import (
	"os"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr       string
	DBPath           string
	GeminiModel      string
	OCRLanguage      string
	AdminTokenSecret string
}

// HasAdminSecret returns true when AdminTokenSecret is non-empty. When it is
// empty the admin endpoints reject every request, so the composition root
// logs a warning at startup.
func (c *Config) HasAdminSecret() bool {
	return c.AdminTokenSecret != ""
}

// Load reads configuration from environment variables and returns a Config.
// CVAGENT_ADMIN_TOKEN_SECRET is optional; without it the admin API is locked.
// Optional variables with defaults: CVAGENT_LISTEN_ADDR (127.0.0.1:8080),
// CVAGENT_DB_PATH (cvagent.db), CVAGENT_GEMINI_MODEL (gemini-2.0-flash),
// CVAGENT_OCR_LANGUAGE (eng).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("CVAGENT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "cvagent.db"
	if v, ok := os.LookupEnv("CVAGENT_DB_PATH"); ok {
		dbPath = v
	}

	geminiModel := "gemini-2.0-flash"
	if v, ok := os.LookupEnv("CVAGENT_GEMINI_MODEL"); ok && v != "" {
		geminiModel = v
	}

	ocrLanguage := "eng"
	if v, ok := os.LookupEnv("CVAGENT_OCR_LANGUAGE"); ok && v != "" {
		ocrLanguage = v
	}

	return &Config{
		ListenAddr:       listenAddr,
		DBPath:           dbPath,
		GeminiModel:      geminiModel,
		OCRLanguage:      ocrLanguage,
		AdminTokenSecret: os.Getenv("CVAGENT_ADMIN_TOKEN_SECRET"),
	}, nil
}
