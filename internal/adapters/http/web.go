package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"bookclub/internal/adapters/api"
	"bookclub/internal/adapters/http/middleware"
	"bookclub/internal/adapters/state"
	credentialStore "bookclub/internal/adapters/storage/credential"
	"bookclub/internal/application/manage"
)

// Deps holds the console's shared dependencies.
type Deps struct {
	API             *api.Client
	CredentialStore credentialStore.Store
	Registry        *manage.Registry
	Directory       *state.Directory
	Catalogs        *state.Catalogs
}

// loadCSRFKey reads the CSRF secret from BOOKCLUB_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("BOOKCLUB_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("BOOKCLUB_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("BOOKCLUB_ENV") == "production" {
		log.Fatal("BOOKCLUB_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set BOOKCLUB_CSRF_KEY for production.")
	return key
}

// Global deps instance (set by NewMux)
var deps *Deps

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// rehydrateSession rebuilds a console session from the credential store
// after a restart. The backend confirms the stored bearer token is still
// good via the current-user endpoint before the session is trusted.
func rehydrateSession(token string) (middleware.Session, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cred, err := deps.CredentialStore.GetBySessionToken(ctx, token)
	if err != nil {
		return middleware.Session{}, false
	}
	u, err := deps.API.WithToken(cred.APIToken).CheckSession(ctx)
	if err != nil {
		// Stored token was revoked backend-side; drop the stale row.
		_ = deps.CredentialStore.Delete(ctx, token)
		return middleware.Session{}, false
	}
	return middleware.Session{
		Token:     token,
		APIToken:  cred.APIToken,
		UserID:    u.ID,
		Username:  u.Username,
		CreatedAt: cred.CreatedAt,
	}, true
}

// NewMux wires HTTP handlers for the console.
func NewMux(staticDir string, d *Deps) http.Handler {
	deps = d
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("BOOKCLUB_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions, rehydrateSession),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
