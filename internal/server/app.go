package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/server/cache"
	"github.com/iudanet/microblog/internal/server/config"
	"github.com/iudanet/microblog/internal/server/cursor"
	"github.com/iudanet/microblog/internal/server/middleware"
	"github.com/iudanet/microblog/internal/server/service"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/server/storage/sqldb"
)

// App собранное по конфигурации приложение
type App struct {
	Handler http.Handler
	store   *sqldb.Storage
	cache   *cache.TokenCache
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// NewApp открывает хранилище, применяет миграции и собирает сервисы и роутер
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*App, error) {
	store, err := sqldb.New(ctx, cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	app := &App{store: store, logger: logger}

	var tokenCache storage.TokenCache
	if cfg.Redis.Addr != "" {
		app.cache = cache.NewTokenCache(logger, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		tokenCache = app.cache

		// Недоступный Redis не мешает старту: кэш работает через breaker
		if err := app.cache.Ping(ctx); err != nil {
			logger.Warn("redis is unavailable, token cache degraded", slog.Any("error", err))
		}
	}

	if cfg.CursorSecretGenerated {
		logger.Warn("cursor.secret is not set, cursors will not survive restart")
	}
	codec := cursor.NewCodec([]byte(cfg.Cursor.Secret))

	if cfg.RateLimit.Enabled() {
		app.limiter = middleware.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Window, logger)
		if cfg.RateLimit.TrustProxy {
			app.limiter.TrustProxyHeaders()
		}
	}

	app.Handler = NewRouter(RouterConfig{
		Logger:    logger,
		DB:        store,
		Limiter:   app.limiter,
		PublicURL: cfg.HTTP.PublicURL,
		Version:   version,
		Services: Services{
			Accounts: service.NewAccountService(logger, store, store, cfg.Auth.BcryptCost),
			Tokens:   service.NewTokenService(logger, store, tokenCache),
			Posts:    service.NewPostService(logger, store, store, codec),
			Graph:    service.NewGraphService(logger, store, store),
			Timeline: service.NewTimelineService(logger, store, store, codec),
		},
	})

	return app, nil
}

// Close освобождает ресурсы приложения
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}

	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	errs = append(errs, a.store.Close())

	return errors.Join(errs...)
}
