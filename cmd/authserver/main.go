// Package main runs the sign-in/sign-up session as an HTTP backend.
//
// The auth provider and document store are selected by environment
// variables (see pkg/config); a .env file next to the binary or in the
// working directory is loaded first.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ArtemSyntax/BibermobilSauna/pkg/authflow"
	authflowapi "github.com/ArtemSyntax/BibermobilSauna/pkg/authflow/api"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/authprovider"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/config"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/docstore"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/profile"
	"github.com/ArtemSyntax/BibermobilSauna/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/tendant/chi-demo/app"
	"golang.org/x/exp/slog"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("Auth server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFile(envFilePath()); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var signInLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		bucketTTL, _ := cfg.RateLimit.ParseBucketTTL()
		signInLimiter = ratelimit.NewRateLimiter(cfg.RateLimit.SignInBurst, cfg.RateLimit.SignInPerSecond, bucketTTL)
		defer signInLimiter.Close()
	}

	provider, err := newProvider(cfg.Provider, signInLimiter)
	if err != nil {
		return err
	}

	ctrl := authflow.NewController(provider, profile.NewService(store))
	ctrl.Restore(ctx)

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	var limitMiddleware *ratelimit.Middleware
	if cfg.RateLimit.Enabled {
		bucketTTL, _ := cfg.RateLimit.ParseBucketTTL()
		limitMiddleware = ratelimit.NewMiddleware(ratelimit.Config{
			Burst:     cfg.RateLimit.Burst,
			PerSecond: cfg.RateLimit.PerSecond,
			BucketTTL: bucketTTL,
		})
		defer limitMiddleware.Close()
	}

	handle := authflowapi.NewHandle(ctrl)
	server.R.Group(func(r chi.Router) {
		if limitMiddleware != nil {
			r.Use(limitMiddleware.Handler)
		}
		handle.RegisterRoutes(r)
	})

	slog.Info("Auth server ready", "provider", cfg.Provider.Kind, "store", cfg.Store.Kind)
	server.Run()
	return nil
}

func newProvider(cfg config.ProviderConfig, limiter *ratelimit.RateLimiter) (authprovider.Provider, error) {
	switch cfg.Kind {
	case config.ProviderREST:
		timeout, err := cfg.ParseRequestTimeout()
		if err != nil {
			return nil, err
		}
		return authprovider.NewRESTProvider(cfg.RESTBaseURL, cfg.RESTAPIKey,
			authprovider.WithHTTPClient(&http.Client{Timeout: timeout}),
		), nil
	default:
		ttl, err := cfg.ParseTokenTTL()
		if err != nil {
			return nil, err
		}
		opts := []authprovider.LocalOption{
			authprovider.WithTokenTTL(ttl),
			authprovider.WithIssuer(cfg.TokenIssuer),
		}
		if cfg.TokenSecret != "" {
			opts = append(opts, authprovider.WithTokenSecret([]byte(cfg.TokenSecret)))
		} else {
			slog.Warn("AUTH_TOKEN_SECRET not set, using a random secret; sessions end on restart")
		}
		if limiter != nil {
			opts = append(opts, authprovider.WithSignInLimiter(limiter))
		}
		return authprovider.NewLocalProvider(authprovider.NewInMemoryAccountRepository(), opts...), nil
	}
}

func openStore(ctx context.Context, cfg config.Config) (docstore.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Kind {
	case config.StoreFile:
		store, err := docstore.NewFileStore(cfg.Store.DataDir)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open file store: %w", err)
		}
		return store, noop, nil

	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Store.SQLitePath), 0o755); err != nil {
			return nil, noop, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		store, err := docstore.OpenSQLiteStore(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { store.Close() }, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return docstore.NewRedisStore(rdb, cfg.Redis.KeyPrefix), func() { rdb.Close() }, nil

	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
		if err != nil {
			slog.Error("Failed creating dbpool", "db", cfg.Database.Database, "host", cfg.Database.Host, "port", cfg.Database.Port, "user", cfg.Database.User)
			return nil, noop, err
		}
		store := docstore.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return store, pool.Close, nil

	default:
		slog.Info("Using in-memory document store; profiles are lost on restart")
		return docstore.NewMemoryStore(), noop, nil
	}
}

// envFilePath prefers a .env next to the executable, then the working directory
func envFilePath() string {
	if exe, err := os.Executable(); err == nil {
		path := filepath.Join(filepath.Dir(exe), ".env")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ".env"
}
