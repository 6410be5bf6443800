package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "membership-backend/internal/api/http"
	"membership-backend/internal/config"
	"membership-backend/internal/jobs"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
	fsrepo "membership-backend/internal/repository/firestore"
	"membership-backend/internal/repository/postgres"
	"membership-backend/internal/scheduler"
	"membership-backend/internal/security"
	"membership-backend/internal/service"
	"membership-backend/internal/verify"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting membership backend...", "log_level", cfg.Log.Level, "backend", cfg.Verification.Backend)

	ctx := context.Background()
	accounts, slots, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	engine := verify.NewEngine(slots, accounts)
	authSvc := service.NewAuthService(accounts, engine, tokenManager, emailSvc, cfg.Verification.AdminEmails)
	adminSvc := service.NewAdminService(accounts, slots, emailSvc)

	// Initialize HTTP handlers
	authHandler := httpapi.NewAuthHandler(authSvc)
	adminHandler := httpapi.NewAdminHandler(adminSvc)
	router := httpapi.NewRouter(authHandler, adminHandler, tokenManager)

	// Start the stale-slot sweep alongside the server
	jobRunner := jobs.NewJobRunner(accounts, slots, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}

// openStore builds the configured persistence backend. The rest of the
// program only sees the repository interfaces.
func openStore(ctx context.Context, cfg *config.Config) (repository.AccountRepository, repository.AuthSlotRepository, func(), error) {
	switch cfg.Verification.Backend {
	case config.BackendFirestore:
		store, err := fsrepo.NewStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("Firestore connection established", "project_id", cfg.Firestore.ProjectID)
		return store, store, func() { _ = store.Close() }, nil
	default:
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)
		store := postgres.NewStore(db)
		return store, store, func() { _ = db.Close() }, nil
	}
}
