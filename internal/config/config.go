// Package config loads the bootstrap configuration (spec §6) from the
// environment, following the teacher's pattern of a pure env-parsing
// package fronted by godotenv.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using system environment variables")
	}
}

// Config is the struct the bootstrap collaborator hands to the core.
type Config struct {
	DatabaseURL string
	ImagePath   string
	ImageTTLSecs *int64
	MaxImageSize *uint64
	BackendPort  uint16

	// Reserved; currently unenforced per spec §6.
	MaxImageWidth  *uint32
	MaxImageHeight *uint32
	MaxMemoryUsage *uint32

	// Ambient, not part of the core contract.
	AppEnv string
}

// Load reads and validates the environment per spec §6.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ImagePath:   getEnv("IMAGE_PATH", "images"),
		AppEnv:      getEnv("APP_ENV", "development"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	if cfg.ImageTTLSecs, err = parseOptionalInt64("IMAGE_TTL_SECS"); err != nil {
		return nil, err
	}
	if cfg.MaxImageSize, err = parseOptionalUint64("MAX_IMAGE_SIZE"); err != nil {
		return nil, err
	}
	if cfg.MaxImageWidth, err = parseOptionalUint32("MAX_IMAGE_WIDTH"); err != nil {
		return nil, err
	}
	if cfg.MaxImageHeight, err = parseOptionalUint32("MAX_IMAGE_HEIGHT"); err != nil {
		return nil, err
	}
	if cfg.MaxMemoryUsage, err = parseOptionalUint32("MAX_MEMORY_USAGE"); err != nil {
		return nil, err
	}

	port := uint64(8080)
	if raw := os.Getenv("BACKEND_PORT"); raw != "" {
		port, err = strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("BACKEND_PORT: %w", err)
		}
	}
	if port >= 25565 {
		return nil, fmt.Errorf("BACKEND_PORT must be < 25565, got %d", port)
	}
	cfg.BackendPort = uint16(port)

	return cfg, nil
}

// GetAllowedOrigins returns the CORS allow-list, defaulting to localhost.
func GetAllowedOrigins() []string {
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr == "" {
		return []string{"http://localhost:3000"}
	}

	parts := strings.Split(originsStr, ",")
	var origins []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalInt64(key string) (*int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

func parseOptionalUint64(key string) (*uint64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

func parseOptionalUint32(key string) (*uint32, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	v32 := uint32(v)
	return &v32, nil
}
