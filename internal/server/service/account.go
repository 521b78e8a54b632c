package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
)

// Profile это публичный профиль пользователя
type Profile struct {
	User      *models.User
	Followers []string // usernames, по возрастанию
	Following []string // usernames, по возрастанию
}

// AccountService управляет пользователями
type AccountService struct {
	logger     *slog.Logger
	users      storage.UserStorage
	follows    storage.FollowStorage
	bcryptCost int
}

// NewAccountService создает новый сервис пользователей
func NewAccountService(logger *slog.Logger, users storage.UserStorage, follows storage.FollowStorage, bcryptCost int) *AccountService {
	return &AccountService{
		logger:     logger,
		users:      users,
		follows:    follows,
		bcryptCost: bcryptCost,
	}
}

// CreateUser регистрирует нового пользователя.
// Все ошибки полей собираются в один validation.Errors.
func (s *AccountService) CreateUser(ctx context.Context, username, password, realName string) (*models.User, error) {
	errs := validation.Errors{}
	errs.Add("username", validation.ValidateUsername(username))
	errs.Add("password", validation.ValidatePassword(password))
	errs.Add("real_name", validation.ValidateRealName(realName))

	// Занятость username проверяем независимо от остальных полей
	if _, ok := errs["username"]; !ok {
		_, err := s.users.GetUserByUsername(ctx, username)
		switch {
		case err == nil:
			errs.Add("username", validation.MsgTaken)
		case !errors.Is(err, storage.ErrUserNotFound):
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	if !errs.Empty() {
		return nil, errs
	}

	hash, err := crypto.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		RealName:     realName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Гонка двух регистраций: уникальный индекс сработал при вставке
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, validation.Single("username", validation.MsgTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	return user, nil
}

// Authenticate проверяет username и пароль.
// Для неизвестного username все равно выполняется bcrypt сравнение,
// чтобы время ответа не выдавало существование пользователя.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			crypto.BurnPasswordCheck(password)
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := crypto.VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// GetProfile возвращает профиль вместе со списками подписчиков и подписок
func (s *AccountService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := lookupUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}

	followers, err := s.follows.ListFollowers(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}

	following, err := s.follows.ListFollowing(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	return &Profile{
		User:      user,
		Followers: usernames(followers),
		Following: usernames(following),
	}, nil
}

// lookupUser находит пользователя, переводя отсутствие в ErrNotFound
func lookupUser(ctx context.Context, users storage.UserStorage, username string) (*models.User, error) {
	// Невалидный username заведомо не существует
	if validation.ValidateUsername(username) != "" {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}

	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func usernames(users []*models.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}
