package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "legalhub/docs" // This is for Swagger
	"legalhub/internal/auth"
	"legalhub/internal/config"
	"legalhub/internal/database"
	"legalhub/internal/email"
	"legalhub/internal/handlers"
	"legalhub/internal/logger"
	"legalhub/internal/middleware"
	"legalhub/internal/notify"
	"legalhub/internal/repository"
	"legalhub/internal/scheduler"
	"legalhub/internal/service"
	"legalhub/internal/vault"
	"legalhub/migrations"
)

// @title LegalHub API
// @version 1.0
// @description Backend API for LegalHub contract review and contract records

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider access token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Overlay secrets from Vault
	vaultCtx, cancelVault := context.WithTimeout(context.Background(), 10*time.Second)
	err = vault.LoadSecrets(vaultCtx, cfg)
	cancelVault()
	if err != nil {
		slog.Error("Failed to load secrets from Vault", "error", err)
		os.Exit(1)
	}
	if !cfg.Vault.Enabled {
		slog.Warn("Vault is disabled - secrets are read from the environment")
	}

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if dir := cfg.Database.MigrationsDir; dir != "" && dirExists(dir) {
		err = migrator.RunMigrationsFromDir(dir)
	} else {
		err = migrator.RunMigrations(migrations.FS)
	}
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db.DB)
	requestRepo := repository.NewReviewRequestRepository(db.DB)
	noteRepo := repository.NewReviewNoteRepository(db.DB)
	contractRepo := repository.NewContractRepository(db.DB)
	categoryRepo := repository.NewCategoryRepository(db.DB)
	clauseRepo := repository.NewClauseRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)

	// Initialize e-mail and notifications
	sender, err := email.NewSender(&cfg.Email)
	if err != nil {
		slog.Error("Failed to initialize email sender", "error", err)
		os.Exit(1)
	}
	if !sender.Enabled() {
		slog.Warn("Email is disabled - status notifications will be skipped", "provider", cfg.Email.Provider)
	}
	notifier := notify.NewEmailNotifier(sender, profileRepo, cfg.Notification.AppURL)
	dispatcher := notify.NewDispatcher(notifier, cfg.Notification.Timeout)

	// Initialize services
	auditSvc := service.NewAuditService(auditRepo)
	profileSvc := service.NewProfileService(profileRepo, auditSvc)
	reviewSvc := service.NewReviewService(requestRepo, noteRepo, dispatcher, auditSvc)
	contractSvc := service.NewContractService(contractRepo, categoryRepo, auditSvc)
	categorySvc := service.NewCategoryService(categoryRepo, contractRepo, auditSvc)
	clauseSvc := service.NewClauseService(clauseRepo, auditSvc)
	analysisSvc := service.NewAnalysisService(cfg.LLM, clauseRepo)
	if !analysisSvc.Available() {
		slog.Warn("LLM is not configured - contract analysis will return 503")
	}

	// Initialize scheduler
	sched := scheduler.New()
	if cfg.Scheduler.EnableDigest {
		digest := scheduler.NewDeadlineDigest(requestRepo, contractRepo, profileRepo, sender,
			cfg.Scheduler.DigestLookaheadDays, cfg.Notification.AppURL)
		if err := sched.Add(cfg.Scheduler.DeadlineDigestCron, "deadline-digest", digest.Run); err != nil {
			slog.Error("Failed to schedule deadline digest", "error", err)
			os.Exit(1)
		}
		slog.Info("Deadline digest enabled", "cron", cfg.Scheduler.DeadlineDigestCron)
	}

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(auth.NewVerifier(&cfg.Auth), profileRepo, cfg.Auth.AdminEmails)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Setup router
	mux := http.NewServeMux()
	registerRoutes(mux, apiHandlers{
		health:     handlers.NewHealthHandler(db, cfg.App.Version),
		profiles:   handlers.NewProfileHandler(profileSvc),
		reviews:    handlers.NewReviewHandler(reviewSvc),
		contracts:  handlers.NewContractHandler(contractSvc),
		categories: handlers.NewCategoryHandler(categorySvc),
		clauses:    handlers.NewClauseHandler(clauseSvc),
		analysis:   handlers.NewAnalysisHandler(analysisSvc),
		audit:      handlers.NewAuditHandler(auditSvc),
	}, authMw)

	// Apply global middleware
	handler := middleware.RequestID(
		middleware.LoggingMiddleware(
			middleware.SecurityHeaders(
				corsMw.Handler(
					rateLimiter.Limit(
						middleware.AuditContext(mux),
					),
				),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	sched.Stop()
	rateLimiter.Stop()
	if err := dispatcher.Shutdown(ctx); err != nil {
		slog.Warn("Pending notifications abandoned", "error", err)
	}

	slog.Info("Server stopped")
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
