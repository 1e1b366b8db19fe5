package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	httpapi "github.com/tabwriterlabs/identity/internal/identity/http"
	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/internal/identity/social"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/internal/identity/store/drivers/sqlite"
	"github.com/tabwriterlabs/identity/pkg/cryptox"
	"github.com/tabwriterlabs/identity/pkg/mailx"
	"github.com/tabwriterlabs/identity/pkg/slogx"
	"github.com/tabwriterlabs/identity/pkg/tokenx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the identity service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db   store.Store
	mail mailx.Sender

	sessionCodec *tokenx.Codec
	purposeCodec *tokenx.Codec

	authService      *service.AuthService
	userService      *service.UserService
	bootstrapService *service.BootstrapService

	server *http.Server
	router *httpapi.Router

	appleVerifier *social.AppleVerifier
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	sessionCodec, err := tokenx.NewCodec([]byte(cfg.SessionSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}
	purposeCodec, err := tokenx.NewCodec([]byte(cfg.PurposeSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("purpose codec: %w", err)
	}
	app.sessionCodec = sessionCodec
	app.purposeCodec = purposeCodec

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMailer()

	registry, err := app.initSocial()
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices(registry)
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := app.bootstrapService.EnsureAdmin(ctx); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	app.logger.Info("identity service starting",
		"port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.appleVerifier != nil {
		app.appleVerifier.Close()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initMailer() {
	if app.cfg.SMTP.Host == "" {
		app.logger.Warn("no SMTP host configured, emails will be logged instead of sent")
		app.mail = mailx.NoopSender{}
		return
	}

	sender, err := mailx.NewSMTPSender(mailx.Config{
		Host:     app.cfg.SMTP.Host,
		Port:     app.cfg.SMTP.Port,
		Username: app.cfg.SMTP.Username,
		Password: app.cfg.SMTP.Password,
		From:     app.cfg.SMTP.From,
	})
	if err != nil {
		app.logger.Error("failed to initialize SMTP client, falling back to log-only mail", "error", err)
		app.mail = mailx.NoopSender{}
		return
	}
	app.mail = sender
}

func (app *Application) initSocial() (*social.Registry, error) {
	registry := social.NewRegistry()
	registry.Register(domain.ProviderGoogle, social.NewGoogleVerifier())
	registry.Register(domain.ProviderFacebook, social.NewFacebookVerifier())
	registry.Register(domain.ProviderLinkedIn, social.NewLinkedInVerifier())

	// Apple needs a configured client id to check the token audience.
	if app.cfg.AppleClientID != "" {
		apple, err := social.NewAppleVerifier(app.cfg.AppleClientID)
		if err != nil {
			return nil, fmt.Errorf("apple verifier: %w", err)
		}
		app.appleVerifier = apple
		registry.Register(domain.ProviderApple, apple)
	} else {
		app.logger.Info("apple client id not configured, apple login disabled")
	}

	return registry, nil
}

func (app *Application) initServices(registry *social.Registry) {
	app.authService = &service.AuthService{
		Store:        app.db,
		SessionCodec: app.sessionCodec,
		PurposeCodec: app.purposeCodec,
		Social:       registry,
		Mail:         app.mail,
		FrontendURL:  app.cfg.FrontendBaseURL,
		AccessTTL:    app.cfg.AccessTTL,
		RefreshTTL:   app.cfg.RefreshTTL,
		PurposeTTL:   app.cfg.PurposeTTL,
	}

	app.userService = &service.UserService{Store: app.db}

	app.bootstrapService = &service.BootstrapService{
		Store:         app.db,
		AdminEmail:    app.cfg.BootstrapAdminEmail,
		AdminName:     app.cfg.BootstrapAdminName,
		AdminPassword: app.cfg.BootstrapAdminPassword,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.sessionCodec,
		BuildVersion,
		app.db,
		app.logger,
	)
	router.AuthService = app.authService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
