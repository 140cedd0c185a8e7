package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	emailPkg "bookclub/internal/adapters/email"
	"bookclub/internal/mockapi"
)

func main() {
	_ = godotenv.Load()

	srv := mockapi.New()

	if os.Getenv("MOCKAPI_SEED") != "false" {
		if err := srv.Seed(); err != nil {
			log.Fatalf("failed to seed mock backend: %v", err)
		}
		log.Printf("Seed data loaded — log in as %s / %s", mockapi.SeedOwnerEmail, mockapi.SeedOwnerPassword)
	}

	// Configure welcome email sender
	resendKey := os.Getenv("MOCKAPI_RESEND_KEY")
	emailFrom := envOrDefault("MOCKAPI_RESEND_FROM", "Book Club <noreply@bookclub.local>")
	if resendKey != "" {
		srv.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		srv.SetEmailSender(emailPkg.NewNoopSender(), emailFrom)
		log.Println("Email sender configured (noop — set MOCKAPI_RESEND_KEY for real delivery)")
	}

	addr := envOrDefault("MOCKAPI_ADDR", ":9090")
	log.Printf("Mock Book Club API starting on %s", addr)

	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
