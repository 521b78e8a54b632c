package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/cursor"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
)

// PostService управляет постами
type PostService struct {
	logger *slog.Logger
	users  storage.UserStorage
	posts  storage.PostStorage
	pager  pager
}

// NewPostService создает новый сервис постов
func NewPostService(logger *slog.Logger, users storage.UserStorage, posts storage.PostStorage, codec *cursor.Codec) *PostService {
	return &PostService{
		logger: logger,
		users:  users,
		posts:  posts,
		pager:  pager{codec: codec, size: DefaultPageSize},
	}
}

// Create публикует пост от имени principal в ленту username
func (s *PostService) Create(ctx context.Context, principal *models.Principal, username, text string) (*models.Post, error) {
	if principal.Username != username {
		return nil, ErrForbidden
	}

	if msg := validation.ValidatePostText(text); msg != "" {
		return nil, validation.Single("text", msg)
	}

	post := &models.Post{
		UserID:    principal.UserID,
		Author:    principal.Username,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.InfoContext(ctx, "post created",
		slog.String("username", username),
		slog.Int64("post_id", post.ID))

	return post, nil
}

// Get возвращает пост по id
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// Delete удаляет пост. Повторное удаление возвращает ErrNotFound
func (s *PostService) Delete(ctx context.Context, principal *models.Principal, id int64) error {
	err := s.posts.DeletePost(ctx, id, principal.UserID)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrPostNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, storage.ErrNotPostAuthor):
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	default:
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.InfoContext(ctx, "post deleted",
		slog.String("username", principal.Username),
		slog.Int64("post_id", id))

	return nil
}

// ListByAuthor возвращает страницу постов пользователя, от новых к старым
func (s *PostService) ListByAuthor(ctx context.Context, username, cursorValue string) (*Page, error) {
	user, err := lookupUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}

	scope := cursor.PostsScope(username)
	before, err := s.pager.before(scope, cursorValue)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListPostsByAuthor(ctx, user.ID, before, s.pager.size+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return s.pager.page(scope, posts)
}
