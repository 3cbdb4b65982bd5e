package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/rushilkag/academic-qa-backend/internal/api"
	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/services"
	"github.com/rushilkag/academic-qa-backend/internal/store"
	"github.com/rushilkag/academic-qa-backend/internal/store/memory"
	"github.com/rushilkag/academic-qa-backend/internal/store/postgres"
)

// main entry point - sets up everything and starts the server
func main() {
	// load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Failed to load .env file: %s\n", err)
		// not a big deal - Docker will set these anyway
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	st := openStore()

	server := api.NewServer(st, api.Config{
		JWTSecret:         []byte(secret),
		Generator:         services.GeneratorFunc(placeholderDraft),
		GenerationTimeout: 2 * time.Minute,
	})
	handler := server.EnableCORS(server) // needed for frontend requests

	fmt.Printf("Starting server on :%s\n", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}

// openStore connects to postgres when DB_URL is set, otherwise falls back to
// the in-memory store (handy for local frontend work)
func openStore() store.Store {
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Println("DB_URL not set, using in-memory store")
		return memory.New()
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %s\n", err)
	}

	pg := postgres.New(db)
	if err := pg.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to migrate database: %s\n", err)
	}

	log.Println("Connected to postgres")
	return pg
}

// placeholderDraft stands in for the real model service until it is wired
// up. It produces an obviously-canned draft that still flows through the
// whole review pipeline.
func placeholderDraft(ctx context.Context, question *models.Question) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(2 * time.Second):
	}
	return fmt.Sprintf(
		"Here is a generated draft answer for %q. A course professor must review this text before students can see it.",
		question.Title), nil
}
