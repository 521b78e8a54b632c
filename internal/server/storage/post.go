package storage

import (
	"context"

	"github.com/iudanet/microblog/internal/models"
)

// PostStorage defines interface for post persistence
type PostStorage interface {
	// CreatePost inserts a post and sets post.ID to the next sequential id
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost retrieves post by ID
	// Returns ErrPostNotFound if post doesn't exist
	GetPost(ctx context.Context, id int64) (*models.Post, error)

	// DeletePost deletes post in a single transaction
	// Returns ErrPostNotFound if post doesn't exist, ErrNotPostAuthor if
	// authorID doesn't own it
	DeletePost(ctx context.Context, id int64, authorID string) error

	// ListPostsByAuthor returns up to limit posts of the author with id < before,
	// newest first
	ListPostsByAuthor(ctx context.Context, authorID string, before int64, limit int) ([]*models.Post, error)
}
