package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"classaction/cmd/internal/config"
	"classaction/cmd/internal/domain/database"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/domain/policy"
	"classaction/cmd/internal/domain/registry"
	"classaction/cmd/internal/http/handler"
	authmiddleware "classaction/cmd/internal/http/middleware"
	"classaction/cmd/internal/infrastructure/aws/mail"
	"classaction/cmd/internal/infrastructure/aws/storage"
	"classaction/cmd/internal/infrastructure/geoip"
	"classaction/cmd/internal/service"
	"classaction/cmd/internal/service/jobs"
	"classaction/cmd/internal/utils"
	"classaction/cmd/internal/utils/validators"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Loads env vars depending on environment
	if err := config.LoadEnvironment(ctx); err != nil {
		log.Fatalf("unable to load environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.GommonLevel())

	db, err := database.Init(database.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DBDSN,
		Debug:  cfg.LogLevel == "debug",
	})
	if err != nil {
		log.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	reg, err := registry.New(cfg.SupportedCompanies, cfg.EmailReplyTo)
	if err != nil {
		log.Fatal(err)
	}

	validate := validators.New()
	mailer := newMailer(ctx, cfg)

	// Gettings repos
	shareholderRepo := repository.NewShareholderRepository(db)

	// Events
	notifier := service.NewNotificationService(mailer, reg)
	notifier.Confirmations = cfg.EmailNotifications
	notifier.AdminNotifications = cfg.AdminNotifications
	notifier.AdminEmail = cfg.AdminEmail
	bus := events.NewBus(notifier, events.AuditLogger{})

	// Getting services
	guard := service.NewGuard(validate, reg, shareholderRepo)

	intakeService := service.NewIntakeService(shareholderRepo, guard, reg, bus, cfg.DefaultCompany)
	intakeService.DuplicateCheck = cfg.DuplicateCheck
	if cfg.GeoIPURL != "" {
		intakeService.Geo = geoip.NewClient(cfg.GeoIPURL, cfg.GeoIPTimeout)
		intakeService.GeoTimeout = cfg.GeoIPTimeout
	}

	shareholderService := service.NewShareholderService(shareholderRepo, guard, validate, bus)
	shareholderService.DefaultPageSize = cfg.DefaultPageSize
	shareholderService.MaxPageSize = cfg.MaxPageSize

	reportService := service.NewReportService(shareholderRepo, guard, reg)
	if cfg.ExportArchiveBucket != "" {
		archive, err := storage.NewStorageClient(ctx, cfg.AWSRegion, cfg.ExportArchiveBucket)
		if err != nil {
			log.Fatal(err)
		}
		reportService.Archive = archive
	}

	emailService := service.NewEmailService(shareholderRepo, guard, mailer, validate, bus)

	// Jobs
	runner := jobs.NewRunner()
	retention := jobs.NewRetentionCleaner(shareholderRepo, cfg.DataRetentionDays, bus)
	if retention.Enabled() {
		err = runner.Add(ctx, "retention", cfg.RetentionSchedule, func(ctx context.Context) {
			_, _ = retention.Run(ctx)
		})
		if err != nil {
			log.Fatal(err)
		}
	}
	go runner.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(cfg.GommonLevel())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("2M"))

	handler.Register(e, &handler.Routes{
		Registration: handler.NewRegistrationRoute(intakeService, reportService),
		Shareholders: handler.NewShareholderRoute(shareholderService),
		Reports:      handler.NewReportRoute(reportService, emailService),
		Util:         handler.NewUtilRoute(sqlDB),
	}, authmiddleware.NewAdminMiddleware(&authmiddleware.AdminMiddlewareConfig{
		Verifier: newVerifier(cfg),
		Policy:   policy.NewAdminPolicy(cfg.AdminGroup),
	}))

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}
}

func newMailer(ctx context.Context, cfg *config.Config) mail.Mailer {
	sender := mail.Sender{
		Name:    cfg.EmailFromName,
		Address: cfg.EmailFromAddress,
		ReplyTo: cfg.EmailReplyTo,
	}
	if !cfg.SESEnabled {
		log.Warn("SES disabled, outgoing emails are only logged")
		return &mail.LogMailer{Sender: sender}
	}

	ses, err := mail.NewSESMailer(ctx, cfg.AWSRegion, sender)
	if err != nil {
		log.Fatal(err)
	}
	return ses
}

func newVerifier(cfg *config.Config) authmiddleware.TokenVerifier {
	if cfg.AdminJWKSURL != "" {
		verifier, err := utils.NewJWKSVerifier(cfg.AdminJWKSURL)
		if err != nil {
			log.Fatal(err)
		}
		return verifier
	}

	if cfg.AdminToken == "" && cfg.IsProduction() {
		log.Fatal("ADMIN_JWKS_URL or ADMIN_TOKEN is required in production")
	}
	log.Warn("ADMIN_JWKS_URL not set, the back office accepts ADMIN_TOKEN only")
	return &utils.StaticTokenVerifier{Token: cfg.AdminToken}
}
