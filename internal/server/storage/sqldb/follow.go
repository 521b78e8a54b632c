package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// Follow creates edge follower -> followee.
// Повторный вызов поглощается первичным ключом без ошибки,
// поэтому одновременные запросы не дают дублей.
func (s *Storage) Follow(ctx context.Context, followerID, followeeID string) error {
	query := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, s.rebind(query), followerID, followeeID, toMillis(time.Now())); err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}

	return nil
}

// Unfollow removes edge follower -> followee
func (s *Storage) Unfollow(ctx context.Context, followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`

	result, err := s.db.ExecContext(ctx, s.rebind(query), followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrFollowNotFound
	}

	return nil
}

// ListFollowers returns users following userID ordered by username
func (s *Storage) ListFollowers(ctx context.Context, userID string) ([]*models.User, error) {
	query := `
		SELECT u.id, u.username, u.real_name, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = ?
		ORDER BY u.username
	`

	return s.listUsers(ctx, query, userID)
}

// ListFollowing returns users followed by userID ordered by username
func (s *Storage) ListFollowing(ctx context.Context, userID string) ([]*models.User, error) {
	query := `
		SELECT u.id, u.username, u.real_name, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = ?
		ORDER BY u.username
	`

	return s.listUsers(ctx, query, userID)
}

func (s *Storage) listUsers(ctx context.Context, query, userID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]*models.User, error) {
	users := []*models.User{}

	for rows.Next() {
		user := &models.User{}
		var createdAt int64

		if err := rows.Scan(&user.ID, &user.Username, &user.RealName, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user.CreatedAt = fromMillis(createdAt)
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}
