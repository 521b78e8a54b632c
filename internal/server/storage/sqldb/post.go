package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

// postInsertLockKey ключ advisory lock, под которым Postgres выдает id постов
const postInsertLockKey int64 = 0x6d626c6f67 // "mblog"

// postInsertLock возвращает запрос, сериализующий вставку постов.
// В Postgres BIGSERIAL выдает id до commit, и параллельные транзакции могут
// зафиксироваться не в порядке id: страница, прочитанная между ними, пропустит
// меньший id. Под transaction-level lock id выдаются и фиксируются по очереди.
// SQLite уже допускает одного писателя.
func postInsertLock(driver string) string {
	if driver == DriverPostgres {
		return "SELECT pg_advisory_xact_lock($1)"
	}
	return ""
}

// CreatePost inserts a post and sets post.ID
func (s *Storage) CreatePost(ctx context.Context, post *models.Post) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if lock := postInsertLock(s.driver); lock != "" {
		if _, err = tx.ExecContext(ctx, lock, postInsertLockKey); err != nil {
			return fmt.Errorf("failed to lock posts: %w", err)
		}
	}

	query := `
		INSERT INTO posts (user_id, text, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`

	err = tx.QueryRowContext(ctx, s.rebind(query),
		post.UserID,
		post.Text,
		toMillis(post.CreatedAt),
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPost retrieves post by ID
func (s *Storage) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	query := `
		SELECT p.id, p.user_id, u.username, p.text, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = ?
	`

	post := &models.Post{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx, s.rebind(query), id).Scan(
		&post.ID,
		&post.UserID,
		&post.Author,
		&post.Text,
		&createdAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post.CreatedAt = fromMillis(createdAt)

	return post, nil
}

// DeletePost deletes post after checking ownership, in one transaction
func (s *Storage) DeletePost(ctx context.Context, id int64, authorID string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ownerID string
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT user_id FROM posts WHERE id = ?`), id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrPostNotFound
		}
		return fmt.Errorf("failed to get post owner: %w", err)
	}

	if ownerID != authorID {
		return storage.ErrNotPostAuthor
	}

	result, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM posts WHERE id = ? AND user_id = ?`), id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		err = storage.ErrPostNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListPostsByAuthor returns up to limit posts of the author with id < before, newest first
func (s *Storage) ListPostsByAuthor(ctx context.Context, authorID string, before int64, limit int) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.user_id, u.username, p.text, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = ? AND p.id < ?
		ORDER BY p.id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), authorID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanPosts(rows)
}

// scanPosts is a helper function to scan multiple posts from rows
func scanPosts(rows *sql.Rows) ([]*models.Post, error) {
	posts := []*models.Post{}

	for rows.Next() {
		post := &models.Post{}
		var createdAt int64

		if err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.Author,
			&post.Text,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		post.CreatedAt = fromMillis(createdAt)
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return posts, nil
}
