package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/stafflane/stafflane/internal/core/http"
	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/internal/core/store/drivers/sqlite"
	"github.com/stafflane/stafflane/pkg/cryptox"
	"github.com/stafflane/stafflane/pkg/jwtx"
	"github.com/stafflane/stafflane/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	keys   *jwtx.KeySet
	signer jwtx.Signer

	tokenService     *service.TokenService
	loginService     *service.LoginService
	authorizeService *service.AuthorizeService
	scopeService     *service.ScopeService
	hierarchyService *service.HierarchyService
	identityService  *service.IdentityService
	tenantService    *service.TenantService
	auditService     *service.AuditService
	bootstrapService *service.BootstrapService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "stafflane",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKeys(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)

	seeded, err := app.bootstrapService.Bootstrap(ctx,
		app.cfg.BootstrapAdminEmail,
		app.cfg.BootstrapAdminPassword,
		app.cfg.BootstrapTenantName,
	)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	if seeded {
		app.logger.Info("store bootstrapped", "admin_email", app.cfg.BootstrapAdminEmail)
	}

	app.logger.Info("service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

// initKeys generates a fresh signing key per process. Session tokens do not
// outlive a deployment, so there is no key persistence or rotation.
func (app *Application) initKeys() error {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return fmt.Errorf("failed to generate signing key: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(jwtx.NewJTI(), pemKey)
	if err != nil {
		return fmt.Errorf("failed to initialize signer: %w", err)
	}

	app.signer = signer
	app.keys = jwtx.NewKeySet()
	app.keys.AddSigner(signer)

	app.logger.Info("signing key generated", "kid", signer.KID())
	return nil
}

func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:   app.signer,
		Verifier: jwtx.NewCommonEdDSA(app.keys, app.cfg.Issuer),
		Issuer:   app.cfg.Issuer,
		TTL:      app.cfg.SessionTTL,
	}

	app.auditService = &service.AuditService{Store: app.db}
	app.loginService = &service.LoginService{Store: app.db, Tokens: app.tokenService}
	app.authorizeService = &service.AuthorizeService{Tokens: app.tokenService}
	app.scopeService = &service.ScopeService{Store: app.db, Tokens: app.tokenService}
	app.hierarchyService = &service.HierarchyService{Store: app.db, Audit: app.auditService}
	app.identityService = &service.IdentityService{
		Store:     app.db,
		Audit:     app.auditService,
		Hierarchy: app.hierarchyService,
	}
	app.tenantService = &service.TenantService{Store: app.db, Audit: app.auditService}
	app.bootstrapService = &service.BootstrapService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.LoginService = app.loginService
	router.AuthorizeService = app.authorizeService
	router.ScopeService = app.scopeService
	router.HierarchyService = app.hierarchyService
	router.IdentityService = app.identityService
	router.TenantService = app.tenantService
	router.AuditService = app.auditService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
