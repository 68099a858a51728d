package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"codewhisper/internal/config"
	"codewhisper/internal/db"
	"codewhisper/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	ctx := context.Background()
	cfg := config.Load()

	// The analytics database is optional. Without it the service runs
	// fully, just without lookup counters.
	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")
	} else {
		log.Println("DATABASE_URL not set, lookup analytics disabled")
	}

	srv := server.New(cfg)
	srv.RegisterRoutes(database)

	log.Printf("CodeWhisper listening on %s", cfg.ServerAddr)
	log.Printf("  Gemini API:    %v", cfg.HasGemini())
	log.Printf("  GitHub token:  %v", cfg.HasGitHubToken())

	// Graceful shutdown on SIGINT/SIGTERM.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := srv.App.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	if err := srv.App.Listen(cfg.ServerAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
