package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "enapm-backend/internal/api/http"
	"enapm-backend/internal/clock"
	"enapm-backend/internal/config"
	"enapm-backend/internal/jobs"
	"enapm-backend/internal/logger"
	"enapm-backend/internal/repository"
	"enapm-backend/internal/repository/postgres"
	"enapm-backend/internal/scheduler"
	"enapm-backend/internal/service"
	"enapm-backend/internal/token"

	_ "github.com/lib/pq"
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
	logger.Info("Starting ENA PM backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	clk := clock.System()
	store := postgres.NewStore(db, clk)
	uow := postgres.NewUnitOfWork(db, clk)

	// Initialize Email Service
	provider := service.NewSendGridProvider(cfg.SendGrid.APIKey, cfg.SendGrid.FromName)
	emailSvc := service.NewEmailService(provider, store.EmailRepository)
	notifier := service.NewInvitationNotifier(emailSvc)

	// Initialize Services
	tokenSvc := token.NewJWTService(cfg.Token.Secret, cfg.InvitationExpiry(), clk)
	invitationSvc := service.NewInvitationService(service.InvitationConfig{
		Invitations: store.InvitationRepository,
		Teams:       store.TeamRepository,
		UnitOfWork:  uow,
		Tokens:      tokenSvc,
		Notifier:    notifier,
		NotifierFor: func(tx repository.Tx) service.InvitationNotificationService {
			return service.NewInvitationNotifier(service.NewEmailService(provider, tx.Emails()))
		},
		CallbackBaseURL: cfg.Invitation.CallbackBaseURL,
	})

	authSvc := service.NewAuthService(cfg.Token.Secret, cfg.SessionExpiry(), clk)
	userSvc := service.NewUserService(uow, authSvc)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(store.InvitationRepository, clk, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(invitationSvc, userSvc)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
