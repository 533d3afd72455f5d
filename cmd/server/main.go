package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"imageforge/internal/config"
	"imageforge/internal/database"
	"imageforge/internal/imagesvc"
	"imageforge/internal/logger"
	"imageforge/internal/observability"
	"imageforge/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger.Init("imageforge", cfg.AppEnv, logger.ParseLevelFromEnv())

	shutdownOTel, err := observability.InitOTel(context.Background(), "imageforge")
	if err != nil {
		log.Printf("Warning: Failed to initialize OpenTelemetry: %v", err)
	} else {
		defer func() {
			if err := shutdownOTel(context.Background()); err != nil {
				log.Printf("Error shutting down OpenTelemetry: %v", err)
			}
		}()
		log.Println("✓ OpenTelemetry initialized")
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✓ Connected to PostgreSQL")

	ctx, cancelSvc := context.WithCancel(context.Background())
	defer cancelSvc()

	svc, err := imagesvc.New(ctx, cfg, db)
	if err != nil {
		log.Fatal("Failed to initialize image service:", err)
	}
	defer svc.Close()

	r := router.Setup(db, svc)

	server := &http.Server{
		Addr:    ":" + strconv.FormatUint(uint64(cfg.BackendPort), 10),
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Server starting on port %d", cfg.BackendPort)
		log.Printf("📍 Database: PostgreSQL")
		log.Printf("🌍 Environment: %s", cfg.AppEnv)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("📤 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited")
}
