package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/authstack/userauth/internal/config"
	"github.com/authstack/userauth/internal/domain"
	"github.com/authstack/userauth/internal/health"
	"github.com/authstack/userauth/internal/http/handler"
	"github.com/authstack/userauth/internal/http/router"
	"github.com/authstack/userauth/internal/repository"
	"github.com/authstack/userauth/internal/security"
	"github.com/authstack/userauth/internal/service"
)

func provideDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

func provideRedis(cfg *config.Config) redis.UniversalClient {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{cfg.RedisAddr}})
}

func provideLookupCache(client redis.UniversalClient) service.NegativeLookupCacheStore {
	if client == nil {
		return service.NewInMemoryNegativeLookupCacheStore()
	}
	return service.NewRedisNegativeLookupCacheStore(client, "")
}

func providePasswordHasher(cfg *config.Config) *security.PasswordHasher {
	return security.NewPasswordHasher(cfg.BcryptCost)
}

func provideTokenCodec(cfg *config.Config) *security.TokenCodec {
	return security.NewTokenCodec(cfg.JWTIssuer, cfg.JWTSecret, cfg.TokenValidity)
}

func provideAuthService(
	cfg *config.Config,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher *security.PasswordHasher,
	codec *security.TokenCodec,
	cache service.NegativeLookupCacheStore,
	logger *slog.Logger,
) *service.AuthService {
	return service.NewAuthService(users, sessions, hasher, codec, cache, cfg.LookupCacheTTL, logger)
}

func provideReadiness(db *gorm.DB, client redis.UniversalClient) *health.ProbeRunner {
	checkers := []health.Checker{health.DatabaseChecker(db)}
	if client != nil {
		checkers = append(checkers, health.RedisChecker(client))
	}
	return health.NewProbeRunner(5*time.Second, 2*time.Second, checkers...)
}

func provideRouter(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	codec *security.TokenCodec,
	auth *service.AuthService,
	readiness *health.ProbeRunner,
) http.Handler {
	return router.NewRouter(router.Dependencies{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		TokenCodec:     codec,
		Authenticator:  auth,
		Readiness:      readiness,
		BodyLimitBytes: cfg.BodyLimitBytes,
		EnableOTelHTTP: cfg.EnableOTelHTTP,
	})
}

func provideServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
