package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"membership-backend/internal/config"
	"membership-backend/internal/jobs"
	"membership-backend/internal/logger"
	"membership-backend/internal/repository"
	fsrepo "membership-backend/internal/repository/firestore"
	"membership-backend/internal/repository/postgres"
	"membership-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'release-stale-slots')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting cronjob runner...", "log_level", cfg.Log.Level, "backend", cfg.Verification.Backend)

	ctx := context.Background()
	accounts, slots, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	jobRunner := jobs.NewJobRunner(accounts, slots, cfg)

	if *runOnce != "" {
		switch *runOnce {
		case "release-stale-slots":
			jobRunner.ReleaseStaleSlots()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Block until interrupted
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutting down cronjob runner...")
}

func openStore(ctx context.Context, cfg *config.Config) (repository.AccountRepository, repository.AuthSlotRepository, func(), error) {
	switch cfg.Verification.Backend {
	case config.BackendFirestore:
		store, err := fsrepo.NewStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, nil, err
		}
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
		store := postgres.NewStore(db)
		return store, store, func() { _ = db.Close() }, nil
	}
}
