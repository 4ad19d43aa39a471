package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/aussiebroadwan/backoffice/internal/admin/app"
)

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
