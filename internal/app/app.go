package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"lead-intake-go/internal/auth"
	"lead-intake-go/internal/config"
	"lead-intake-go/internal/db"
	dashboarddomain "lead-intake-go/internal/domain/dashboard"
	leadsdomain "lead-intake-go/internal/domain/leads"
	userdomain "lead-intake-go/internal/domain/user"
	"lead-intake-go/internal/repository/inmemory"
	dashboardrepo "lead-intake-go/internal/repository/postgres/dashboard"
	leadsrepo "lead-intake-go/internal/repository/postgres/leads"
	userrepo "lead-intake-go/internal/repository/postgres/user"
	"lead-intake-go/internal/transport/httpserver"
	"lead-intake-go/internal/transport/httpserver/handler"
	"lead-intake-go/migrations"
	"lead-intake-go/pkg/logger"
)

const redisPingTimeout = 3 * time.Second

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	log        logger.Logger
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	application := &App{cfg: cfg, db: dbConn, log: log}

	if cfg.DB.AutoMigrate {
		if _, err := db.Migrate(dbConn, migrations.Files, log); err != nil {
			_ = application.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	revoked, err := application.revocationStore(ctx)
	if err != nil {
		_ = application.Close()
		return nil, err
	}

	location, err := time.LoadLocation(cfg.Dashboard.TimeZone)
	if err != nil {
		_ = application.Close()
		return nil, fmt.Errorf("dashboard time zone: %w", err)
	}

	leadsService := leadsdomain.NewService(leadsrepo.NewPostgres(dbConn))
	dashboardService := dashboarddomain.NewServiceWithLocation(dashboardrepo.NewPostgres(dbConn), location)
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))

	if err := bootstrapAdmin(ctx, cfg.Auth, userService, log); err != nil {
		_ = application.Close()
		return nil, err
	}

	gate := auth.NewGate(auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), revoked, userService)

	log.Info("app: initializing router")
	handlers := handler.New(leadsService, dashboardService, userService, gate, handler.Options{
		AllowSignup:  cfg.Auth.AllowSignup,
		ExposeErrors: cfg.IsDevelopment(),
	}, log)
	router := httpserver.NewRouter(cfg, handlers, gate, log)

	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

func (a *App) revocationStore(ctx context.Context) (auth.RevocationStore, error) {
	if !a.cfg.Redis.Enabled {
		a.log.Info("auth: redis disabled, keeping revoked tokens in memory")
		return inmemory.NewRevokedTokens(), nil
	}

	client := auth.NewRedisClient(a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	a.redis = client
	a.log.Info("auth: revoked tokens stored in redis", "addr", a.cfg.Redis.Addr)
	return auth.NewRedisRevocationStore(client, a.log), nil
}

// bootstrapAdmin makes sure the configured operator account exists. Nothing
// happens unless both email and password are configured.
func bootstrapAdmin(ctx context.Context, cfg config.AuthConfig, users *userdomain.Service, log logger.Logger) error {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}

	account, created, err := users.EnsureAdmin(ctx, cfg.BootstrapAdminName, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.Info("auth: bootstrap admin created", "user_id", account.ID, "email", account.Email)
	}
	return nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, db.Close(a.db))
	return errors.Join(errs...)
}
