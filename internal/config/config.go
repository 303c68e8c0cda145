package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string
	HTTPAddr       string
	DBDSN          string
	APIToken       string
	MigrationsPath string

	// Lado cliente (gateway de la agenda)
	APIBaseURL     string
	RequestTimeout time.Duration
}

// Load carga la configuración desde .env y variables de entorno
func Load() (*Config, error) {
	// Intentamos cargar el .env (se ignora el error si no existe)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		DBDSN:          os.Getenv("DB_DSN"),
		APIToken:       os.Getenv("API_TOKEN"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		APIBaseURL:     os.Getenv("API_BASE_URL"),
	}

	// Valores por defecto
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":3000"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://127.0.0.1:3000"
	}

	// Timeout de los requests del gateway: acota los cuelgues de red
	cfg.RequestTimeout = 15 * time.Second
	if raw := os.Getenv("REQUEST_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT_SECONDS %q", raw)
		}
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}

	// Campos obligatorios
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
