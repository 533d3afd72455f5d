package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "IMAGE_PATH", "APP_ENV", "IMAGE_TTL_SECS",
		"MAX_IMAGE_SIZE", "MAX_IMAGE_WIDTH", "MAX_IMAGE_HEIGHT",
		"MAX_MEMORY_USAGE", "BACKEND_PORT",
	} {
		os.Unsetenv(k)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ImagePath != "images" {
		t.Fatalf("expected default ImagePath %q, got %q", "images", cfg.ImagePath)
	}
	if cfg.BackendPort != 8080 {
		t.Fatalf("expected default BackendPort 8080, got %d", cfg.BackendPort)
	}
	if cfg.ImageTTLSecs != nil {
		t.Fatalf("expected nil ImageTTLSecs by default")
	}
}

func TestLoadRejectsPortAboveLimit(t *testing.T) {
	clearEnv(t)
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("BACKEND_PORT", "25565")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("BACKEND_PORT")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for BACKEND_PORT >= 25565")
	}
}

func TestLoadParsesOptionalTTL(t *testing.T) {
	clearEnv(t)
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("IMAGE_TTL_SECS", "3600")
	defer os.Unsetenv("DATABASE_URL")
	defer os.Unsetenv("IMAGE_TTL_SECS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ImageTTLSecs == nil || *cfg.ImageTTLSecs != 3600 {
		t.Fatalf("expected ImageTTLSecs=3600, got %v", cfg.ImageTTLSecs)
	}
}

func TestGetAllowedOriginsDefault(t *testing.T) {
	os.Unsetenv("ALLOWED_ORIGINS")
	origins := GetAllowedOrigins()
	if len(origins) != 1 || origins[0] != "http://localhost:3000" {
		t.Fatalf("expected default localhost origin, got %v", origins)
	}
}
