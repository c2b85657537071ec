package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/questrider/auth-service/internal/application/auth"
	"github.com/questrider/auth-service/internal/config"
	"github.com/questrider/auth-service/internal/domain"
	"github.com/questrider/auth-service/internal/infrastructure/db/postgres"
	"github.com/questrider/auth-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/questrider/auth-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/questrider/auth-service/internal/infrastructure/redis"
	"github.com/questrider/auth-service/internal/infrastructure/security"
	"github.com/questrider/auth-service/internal/logger"
	http_handlers "github.com/questrider/auth-service/internal/transport/http/handlers"
	"github.com/questrider/auth-service/internal/transport/http/middleware"
	"github.com/questrider/auth-service/internal/transport/http/response"
	"github.com/questrider/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (DBCloser, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type DBCloser interface {
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface{}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	// 2) user repo
	var users auth.UserRepo
	var sqlDB *sql.DB
	switch d := db.(type) {
	case *sql.DB:
		sqlDB = d
		users = postgres.NewUserRepo(d)
	default:
		// injected fake in tests
		repo, ok := db.(auth.UserRepo)
		if !ok {
			runCleanup(cleanupFns)
			return nil, nil, errors.New("bootstrap: NewDB returned neither *sql.DB nor auth.UserRepo")
		}
		users = repo
	}

	// 3) onboarding store: redis, memory fallback in dev
	var onboarding auth.OnboardingStore
	if deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			if cfg.Env != "dev" {
				_ = c.Close()
				runCleanup(cleanupFns)
				return nil, nil, err
			}
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory onboarding store")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			if rc, ok := c.(*redis.Client); ok {
				onboarding = redis.NewOnboardingStore(rc)
			}
		}
	}
	if onboarding == nil {
		onboarding = memory.NewOnboardingStore()
	}

	// 4) delivery channel
	var delivery auth.OTPDelivery
	pub, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		if cfg.Env != "dev" {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
		logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop delivery")
		delivery = memory.NewNoopDelivery()
	} else {
		d, ok := pub.(auth.OTPDelivery)
		if !ok {
			runCleanup(cleanupFns)
			return nil, nil, errors.New("bootstrap: publisher does not implement auth.OTPDelivery")
		}
		delivery = d
		if c, ok := pub.(interface{ Close() error }); ok {
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.TokenIssuer).Msg("initializing token codec")
	codec, err := security.NewCodec(cfg.SealKey)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	hasher := security.NewArgon2Hasher()
	codes := security.NewOTPGenerator(cfg.OTPLength)

	// seed (dev only)
	if cfg.Env == "dev" {
		postgres.SeedUsers(context.Background(), users, hasher)
	}

	// 6) service
	authSvc := auth.NewService(
		users,
		onboarding,
		hasher,
		codes,
		codec,
		delivery,
		auth.Config{
			Issuer:          cfg.TokenIssuer,
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			OTPTTL:          cfg.OTPTTL,
			DefaultRole:     cfg.DefaultRole,
		},
	)

	authSvc = authSvc.WithAudit(func(event string, fields map[string]any) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("event", event)
		for k, v := range fields {
			evt = evt.Interface(k, v)
		}
		evt.Msg("audit")
	})

	// 7) handlers + middleware
	secureCookies := cfg.Env != "dev"

	authH := http_handlers.NewAuthHandler(authSvc, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, secureCookies)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(codec, cfg.TokenIssuer, time.Now, response.WriteError)
	adminMW := middleware.RequireRole(domain.RoleAdmin, response.WriteError)

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:  healthH,
		Auth:    authH,
		AuthMW:  authMW,
		AdminMW: adminMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(dsn string) (DBCloser, error) {
			return config.NewDB(dsn)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
