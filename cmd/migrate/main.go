package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/yschu/twitter/backend/internal/database"
)

// Runs schema migrations and exits. Deploy pipelines call this before
// rolling the server so the schema is ready ahead of traffic.
func main() {
	godotenv.Load()

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations complete")
}
