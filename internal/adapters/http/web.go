package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	dietplanStore "gymdesk/internal/adapters/storage/dietplan"
	feeStore "gymdesk/internal/adapters/storage/fee"
	memberStore "gymdesk/internal/adapters/storage/member"
	sessionStore "gymdesk/internal/adapters/storage/session"
	userStore "gymdesk/internal/adapters/storage/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	UserStore     userStore.Store
	MemberStore   memberStore.Store
	FeeStore      feeStore.Store
	DietPlanStore dietplanStore.Store
	SessionStore  sessionStore.Store
}

// loadCSRFKey reads the CSRF secret from GYMDESK_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("GYMDESK_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("GYMDESK_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("GYMDESK_ENV") == "production" {
		log.Fatal("GYMDESK_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (form tokens won't survive restart). Set GYMDESK_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session service instance (set by NewMux)
var sessions *middleware.SessionService

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionService(s.SessionStore, s.UserStore)
	middleware.SecureCookies = os.Getenv("GYMDESK_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
