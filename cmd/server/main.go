package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"bookclub/internal/adapters/api"
	web "bookclub/internal/adapters/http"
	"bookclub/internal/adapters/state"
	"bookclub/internal/adapters/storage"
	credentialStore "bookclub/internal/adapters/storage/credential"
	"bookclub/internal/application/manage"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Optional .env for local development; real deployments set env vars directly.
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("BOOKCLUB_DB", "bookclub.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	apiURL := envOrDefault("BOOKCLUB_API_URL", "http://localhost:9090")

	deps := &web.Deps{
		API:             api.NewClient(apiURL),
		CredentialStore: credentialStore.NewSQLiteStore(db),
		Registry:        manage.NewRegistry(),
		Directory:       state.NewDirectory(),
		Catalogs:        state.NewCatalogs(),
	}

	mux := web.NewMux("static", deps)

	addr := envOrDefault("BOOKCLUB_ADDR", ":8080")
	log.Printf("Book Club console %s starting on %s (env=%s, api=%s)", version, addr, envOrDefault("BOOKCLUB_ENV", "development"), apiURL)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
