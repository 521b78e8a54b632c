// Package cache содержит Redis кэш разрешенных токенов.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// DefaultTTL время жизни записи по умолчанию
const DefaultTTL = 10 * time.Minute

const keyPrefix = "token:"

// TokenCache кэширует Principal по digest токена в Redis.
// Все обращения идут через circuit breaker: при недоступном Redis
// запросы быстро отклоняются, и сервис токенов читает из БД.
type TokenCache struct {
	rdb    *redis.Client
	cb     *gobreaker.CircuitBreaker
	logger *slog.Logger
	ttl    time.Duration
}

// Options настройки подключения к Redis
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewTokenCache создает кэш поверх нового Redis клиента
func NewTokenCache(logger *slog.Logger, opts Options) *TokenCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  500 * time.Millisecond,
		ReadTimeout:  200 * time.Millisecond,
		WriteTimeout: 200 * time.Millisecond,
		MaxRetries:   -1,
	})

	return newTokenCache(logger, rdb, opts.TTL)
}

func newTokenCache(logger *slog.Logger, rdb *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	st := gobreaker.Settings{
		Name:        "token-cache",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &TokenCache{
		rdb:    rdb,
		cb:     gobreaker.NewCircuitBreaker(st),
		logger: logger,
		ttl:    ttl,
	}
}

func key(digest string) string {
	return keyPrefix + digest
}

// GetPrincipal returns cached principal or storage.ErrCacheMiss
func (c *TokenCache) GetPrincipal(ctx context.Context, digest string) (*models.Principal, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		data, err := c.rdb.Get(ctx, key(digest)).Bytes()
		// Отсутствие ключа это нормальный ответ, а не отказ Redis
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, fmt.Errorf("token cache get: %w", err)
	}

	data, _ := res.([]byte)
	if data == nil {
		return nil, storage.ErrCacheMiss
	}

	var principal models.Principal
	if err := json.Unmarshal(data, &principal); err != nil {
		return nil, fmt.Errorf("token cache decode: %w", err)
	}

	return &principal, nil
}

// SetPrincipal caches principal for digest with configured TTL
func (c *TokenCache) SetPrincipal(ctx context.Context, digest string, principal *models.Principal) error {
	data, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("token cache encode: %w", err)
	}

	_, err = c.cb.Execute(func() (interface{}, error) {
		return nil, c.rdb.Set(ctx, key(digest), data, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("token cache set: %w", err)
	}

	return nil
}

// Ping checks Redis availability
func (c *TokenCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes Redis client
func (c *TokenCache) Close() error {
	return c.rdb.Close()
}
