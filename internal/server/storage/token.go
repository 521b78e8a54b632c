package storage

import (
	"context"

	"github.com/iudanet/microblog/internal/models"
)

// TokenStorage defines interface for bearer token persistence
type TokenStorage interface {
	// SaveToken stores a token digest for a user
	SaveToken(ctx context.Context, token *models.Token) error

	// GetPrincipal resolves token digest to its owner
	// Returns ErrTokenNotFound if digest is unknown
	GetPrincipal(ctx context.Context, digest string) (*models.Principal, error)
}

// TokenCache defines interface for an optional read-through cache of
// resolved tokens. Implementations are best effort: callers fall back
// to TokenStorage on any error
type TokenCache interface {
	// GetPrincipal returns cached principal
	// Returns ErrCacheMiss if digest is not cached
	GetPrincipal(ctx context.Context, digest string) (*models.Principal, error)

	// SetPrincipal caches principal for digest
	SetPrincipal(ctx context.Context, digest string, principal *models.Principal) error
}
