package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/newsletter/internal/api"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/identity"
	"github.com/ignite/newsletter/internal/notify"
	"github.com/ignite/newsletter/internal/ratelimit"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatalf("Failed to ping database: %v", err)
	}
	pingCancel()
	log.Println("Database connected")

	// Outbound email transport
	sender, err := domain.ParseSubscriberEmail(cfg.Email.Sender)
	if err != nil {
		log.Fatalf("Invalid sender address %q: %v", cfg.Email.Sender, err)
	}

	var notifier notify.Notifier
	switch cfg.Email.Provider {
	case "ses":
		notifier, err = notify.NewSESNotifier(context.Background(),
			cfg.Email.SES.AccessKey, cfg.Email.SES.SecretKey, cfg.Email.SES.Region, sender)
		if err != nil {
			log.Fatalf("Failed to initialize SES notifier: %v", err)
		}
		log.Printf("Email transport: SES (region %s)", cfg.Email.SES.Region)
	case "postmark", "":
		notifier = notify.NewPostmarkClient(cfg.Email.BaseURL, sender, cfg.Email.ServerToken, cfg.Email.Timeout())
		log.Printf("Email transport: Postmark (%s)", cfg.Email.BaseURL)
	default:
		log.Fatalf("Unknown email provider %q (want postmark or ses)", cfg.Email.Provider)
	}

	templates, err := notify.NewConfirmationTemplates()
	if err != nil {
		log.Fatalf("Failed to parse confirmation templates: %v", err)
	}

	// Password verification worker pool
	pool := identity.NewVerifierPool(cfg.Auth.VerifierWorkers, cfg.Auth.VerifierQueue)
	defer pool.Stop()

	validator, err := identity.NewValidator(postgres.NewUserRepo(db), pool, cfg.Auth.DecoySeed)
	if err != nil {
		log.Fatalf("Failed to initialize credential validator: %v", err)
	}

	// Services
	subscriberRepo := postgres.NewSubscriberRepo(db)
	subscriptions := subscription.NewService(subscriberRepo, notifier, templates, cfg.Server.BaseURL)
	newsletters := newsletter.NewService(validator, subscriberRepo, notifier)

	// Optional per-IP subscribe rate limiter
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled && cfg.RateLimit.RedisURL != "" {
		limiter, err = ratelimit.NewLimiterFromURL(cfg.RateLimit.RedisURL, cfg.RateLimit.Limit, cfg.RateLimit.Window())
		if err != nil {
			log.Printf("Warning: rate limiter disabled, Redis unavailable: %v", err)
			limiter = nil
		} else {
			log.Printf("Rate limiter enabled: %d requests per %s", cfg.RateLimit.Limit, cfg.RateLimit.Window())
		}
	} else {
		log.Println("Rate limiter not configured")
	}

	server := api.NewServer(api.NewHandlers(subscriptions, newsletters, limiter))

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		log.Printf("Starting server on %s (public base URL %s)", addr, cfg.Server.BaseURL)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
