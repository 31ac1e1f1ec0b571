package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "iuran-rt-backend/internal/api/http"
	"iuran-rt-backend/internal/config"
	"iuran-rt-backend/internal/jobs"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository/postgres"
	"iuran-rt-backend/internal/scheduler"
	"iuran-rt-backend/internal/security"
	"iuran-rt-backend/internal/service"
	"iuran-rt-backend/internal/storage"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("with-scheduler", false, "Run the billing cron jobs inside the API process")
	flag.Parse()

	// .env is optional; real environment variables still win over it
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Iuran RT Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Billing configuration", "double_verification", cfg.Billing.DoubleVerification, "top_debtors", cfg.Billing.TopDebtors)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db, postgres.WithLockNamespace(cfg.Billing.GenerationLockNamespace))
	repos := store.Repositories()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	arrearsSvc := service.NewArrearsService(repos, store)
	invoiceSvc := service.NewInvoiceService(repos, store)
	services := httpapi.Services{
		Auth:         service.NewAuthService(repos, store, tokenManager),
		DueType:      service.NewDueTypeService(store.DueTypeRepository),
		Resident:     service.NewResidentService(repos, store),
		Invoice:      invoiceSvc,
		Payment:      service.NewPaymentService(repos, store, cfg.VerificationPolicy()),
		Arrears:      arrearsSvc,
		Report:       service.NewReportService(repos, arrearsSvc, cfg.Billing.TopDebtors),
		Announcement: service.NewAnnouncementService(store.AnnouncementRepository),
	}

	// Optional in-process scheduler
	var cronScheduler *scheduler.Scheduler
	if *withScheduler {
		jobRunner := jobs.NewJobRunner(&jobs.Services{Invoice: invoiceSvc, Arrears: arrearsSvc}, cfg)
		cronScheduler, err = scheduler.NewScheduler(jobRunner)
		if err != nil {
			log.Fatalf("Failed to register cron jobs: %v", err)
		}
		cronScheduler.Start()
	}

	// Initialize proof storage
	logger.Info("Using local proof storage", "upload_dir", cfg.Storage.UploadDir)
	proofStorage, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.MaxProofSizeBytes)
	if err != nil {
		logger.Error("Failed to initialize proof storage", "error", err)
		log.Fatalf("Failed to initialize proof storage: %v", err)
	}

	// Set up HTTP server
	handlers := httpapi.NewHandlers(services, proofStorage, cfg.Export.SheetName, cfg.Storage.MaxProofSizeBytes)
	router := httpapi.NewRouter(handlers, tokenManager)
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}
