package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// SaveToken stores a token digest for a user
func (s *Storage) SaveToken(ctx context.Context, token *models.Token) error {
	query := `
		INSERT INTO tokens (digest, user_id, created_at)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		token.Digest,
		token.UserID,
		toMillis(token.CreatedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return nil
}

// GetPrincipal resolves token digest to its owner
func (s *Storage) GetPrincipal(ctx context.Context, digest string) (*models.Principal, error) {
	query := `
		SELECT u.id, u.username
		FROM tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.digest = ?
	`

	principal := &models.Principal{}

	err := s.db.QueryRowContext(ctx, s.rebind(query), digest).Scan(
		&principal.UserID,
		&principal.Username,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return principal, nil
}
