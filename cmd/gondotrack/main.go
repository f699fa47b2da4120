package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tanwk/gondotrack/internal/alert"
	"github.com/tanwk/gondotrack/internal/api"
	"github.com/tanwk/gondotrack/internal/api/handlers"
	"github.com/tanwk/gondotrack/internal/api/middleware"
	"github.com/tanwk/gondotrack/internal/config"
	"github.com/tanwk/gondotrack/internal/db"
	"github.com/tanwk/gondotrack/internal/db/repository"
	"github.com/tanwk/gondotrack/internal/mail"
	"github.com/tanwk/gondotrack/internal/otp"
)

var (
	// Version information (set via ldflags)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "/etc/gondotrack/config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Gondotrack Server\n")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Commit:     %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	logger.Info("starting gondotrack server", "version", Version, "commit", Commit)

	// Initialize database
	logger.Info("connecting to database", "path", cfg.Database.Path)
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.RunMigrations(database); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Outbound mail
	mailer, err := mail.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logger.Error("failed to configure smtp", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	otpRepo := repository.NewOTPRepository(database.DB)
	projectRepo := repository.NewProjectRepository(database.DB)
	gondolaRepo := repository.NewGondolaRepository(database.DB)
	documentRepo := repository.NewDocumentRepository(database.DB)
	shiftRepo := repository.NewShiftRepository(database.DB)
	repairRepo := repository.NewRepairRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)
	inspectionRepo := repository.NewInspectionRepository(database.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(database.DB)
	alertLogRepo := repository.NewAlertLogRepository(database.DB)

	// Domain services
	issuer := otp.NewIssuer(otpRepo, mailer, cfg)
	alertService := alert.NewService(gondolaRepo, documentRepo, subscriptionRepo, alertLogRepo, mailer, logger)

	// Create HTTP server
	server := api.NewServer(cfg, logger, api.Handlers{
		Auth:          handlers.NewAuthHandler(cfg, userRepo, issuer, logger),
		Alerts:        handlers.NewAlertHandler(alertService, subscriptionRepo, alertLogRepo, logger),
		Projects:      handlers.NewProjectHandler(projectRepo, logger),
		Gondolas:      handlers.NewGondolaHandler(gondolaRepo, shiftRepo, logger),
		Documents:     handlers.NewDocumentHandler(documentRepo, gondolaRepo, logger),
		Repairs:       handlers.NewRepairHandler(repairRepo, logger),
		Orders:        handlers.NewOrderHandler(orderRepo, logger),
		Inspections:   handlers.NewInspectionHandler(inspectionRepo, logger),
		Subscriptions: handlers.NewSubscriptionHandler(subscriptionRepo, logger),
		Users:         userRepo,
	},
		middleware.SessionAuth([]byte(cfg.Auth.JWTSecret)),
		middleware.AdminAuth(cfg.Auth.AdminToken),
		middleware.RequestLogger(logger),
	)

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		logger.Info("listening", "addr", cfg.Server.ListenAddr)
		if err := server.Run(); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-quit
	logger.Info("shutting down")
	database.Close()
}

// newLogger builds the process logger from config
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
