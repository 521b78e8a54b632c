package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// TokenService выпускает bearer токены и разрешает их в Principal
type TokenService struct {
	logger *slog.Logger
	tokens storage.TokenStorage
	cache  storage.TokenCache
}

// NewTokenService создает сервис токенов. cache может быть nil
func NewTokenService(logger *slog.Logger, tokens storage.TokenStorage, cache storage.TokenCache) *TokenService {
	if cache == nil {
		cache = nopCache{}
	}

	return &TokenService{
		logger: logger,
		tokens: tokens,
		cache:  cache,
	}
}

// Issue создает новый токен для пользователя.
// Возвращает значение токена, в хранилище попадает только его digest.
func (s *TokenService) Issue(ctx context.Context, user *models.User) (string, error) {
	value, err := crypto.GenerateToken()
	if err != nil {
		return "", err
	}

	digest, err := crypto.HashToken(value)
	if err != nil {
		return "", err
	}

	token := &models.Token{
		Digest:    digest,
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tokens.SaveToken(ctx, token); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}

	s.logger.InfoContext(ctx, "token issued", slog.String("username", user.Username))

	return value, nil
}

// Resolve возвращает владельца токена или ErrUnauthorized
func (s *TokenService) Resolve(ctx context.Context, value string) (*models.Principal, error) {
	if value == "" {
		return nil, ErrUnauthorized
	}

	digest, err := crypto.HashToken(value)
	if err != nil {
		return nil, ErrUnauthorized
	}

	principal, err := s.cache.GetPrincipal(ctx, digest)
	if err == nil {
		return principal, nil
	}
	if !errors.Is(err, storage.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "token cache lookup failed", slog.Any("error", err))
	}

	principal, err = s.tokens.GetPrincipal(ctx, digest)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}

	if err := s.cache.SetPrincipal(ctx, digest, principal); err != nil {
		s.logger.WarnContext(ctx, "token cache store failed", slog.Any("error", err))
	}

	return principal, nil
}

type nopCache struct{}

func (nopCache) GetPrincipal(context.Context, string) (*models.Principal, error) {
	return nil, storage.ErrCacheMiss
}

func (nopCache) SetPrincipal(context.Context, string, *models.Principal) error {
	return nil
}
