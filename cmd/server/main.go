package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/storage"
	dietplanStore "gymdesk/internal/adapters/storage/dietplan"
	feeStore "gymdesk/internal/adapters/storage/fee"
	memberStore "gymdesk/internal/adapters/storage/member"
	sessionStore "gymdesk/internal/adapters/storage/session"
	userStore "gymdesk/internal/adapters/storage/user"
	"gymdesk/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configureLogging()

	// WAL mode with a busy timeout keeps concurrent request handling sane.
	dbPath := envOrDefault("GYMDESK_DB", "gymdesk.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	sessStore := sessionStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		UserStore:     userStore.NewSQLiteStore(timedDB),
		MemberStore:   memberStore.NewSQLiteStore(timedDB),
		FeeStore:      feeStore.NewSQLiteStore(timedDB),
		DietPlanStore: dietplanStore.NewSQLiteStore(timedDB),
		SessionStore:  sessStore,
	}

	// Seed the default owner account when the users table is empty
	if err := orchestrators.ExecuteSeedOwner(context.Background(), orchestrators.SeedOwnerDeps{
		UserStore: stores.UserStore,
	}); err != nil {
		log.Fatalf("failed to seed owner account: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Purge expired sessions hourly
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := sessStore.DeleteExpired(ctx, time.Now())
				if err != nil {
					slog.Error("session_purge_failed", "error", err)
				} else if removed > 0 {
					slog.Info("sessions_purged", "count", removed)
				}
			}
		}
	}()

	// Configure email sender for the overdue fee digest
	var sender emailPkg.Sender
	resendKey := os.Getenv("GYMDESK_RESEND_KEY")
	emailFrom := envOrDefault("GYMDESK_EMAIL_FROM", "GymDesk <noreply@gymdesk.local>")
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("GYMDESK_ENV") == "production" {
			log.Println("WARNING: GYMDESK_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set GYMDESK_RESEND_KEY for real delivery)")
		}
	}

	if digestTo := os.Getenv("GYMDESK_DIGEST_TO"); digestTo != "" {
		orchestrators.StartDigestWorker(ctx, digestTo, 24*time.Hour, orchestrators.OverdueDigestDeps{
			FeeStore:    stores.FeeStore,
			MemberStore: stores.MemberStore,
			Sender:      sender,
		})
		log.Printf("Overdue fee digest enabled for %s", digestTo)
	}

	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("GYMDESK_ADDR", ":8080")
	log.Printf("GymDesk %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("GYMDESK_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// configureLogging sets the default slog level from GYMDESK_LOG_LEVEL.
func configureLogging() {
	level := slog.LevelInfo
	switch envOrDefault("GYMDESK_LOG_LEVEL", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
