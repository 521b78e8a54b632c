package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
)

// GraphService управляет подписками
type GraphService struct {
	logger  *slog.Logger
	users   storage.UserStorage
	follows storage.FollowStorage
}

// NewGraphService создает новый сервис подписок
func NewGraphService(logger *slog.Logger, users storage.UserStorage, follows storage.FollowStorage) *GraphService {
	return &GraphService{
		logger:  logger,
		users:   users,
		follows: follows,
	}
}

// Follow подписывает username на other. Повторная подписка не ошибка
func (s *GraphService) Follow(ctx context.Context, principal *models.Principal, username, other string) error {
	if principal.Username != username {
		return ErrForbidden
	}

	if other == username {
		return validation.Single("other", validation.MsgYourself)
	}

	followee, err := lookupUser(ctx, s.users, other)
	if err != nil {
		return err
	}

	if err := s.follows.Follow(ctx, principal.UserID, followee.ID); err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	s.logger.InfoContext(ctx, "followed",
		slog.String("follower", username),
		slog.String("followee", other))

	return nil
}

// Unfollow отписывает username от other. Отсутствующая подписка это ErrNotFound
func (s *GraphService) Unfollow(ctx context.Context, principal *models.Principal, username, other string) error {
	if principal.Username != username {
		return ErrForbidden
	}

	followee, err := lookupUser(ctx, s.users, other)
	if err != nil {
		return err
	}

	if err := s.follows.Unfollow(ctx, principal.UserID, followee.ID); err != nil {
		if errors.Is(err, storage.ErrFollowNotFound) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return fmt.Errorf("failed to unfollow: %w", err)
	}

	s.logger.InfoContext(ctx, "unfollowed",
		slog.String("follower", username),
		slog.String("followee", other))

	return nil
}
