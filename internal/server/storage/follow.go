package storage

import (
	"context"

	"github.com/iudanet/microblog/internal/models"
)

// FollowStorage defines interface for the follower/followee graph
type FollowStorage interface {
	// Follow creates edge follower -> followee
	// Existing edge is not an error
	Follow(ctx context.Context, followerID, followeeID string) error

	// Unfollow removes edge follower -> followee
	// Returns ErrFollowNotFound if edge doesn't exist
	Unfollow(ctx context.Context, followerID, followeeID string) error

	// ListFollowers returns users following userID ordered by username
	ListFollowers(ctx context.Context, userID string) ([]*models.User, error)

	// ListFollowing returns users followed by userID ordered by username
	ListFollowing(ctx context.Context, userID string) ([]*models.User, error)
}
