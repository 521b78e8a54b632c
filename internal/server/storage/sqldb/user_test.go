package sqldb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
)

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     "alice",
		PasswordHash: "hash123",
		RealName:     "Alice Smith",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	// Verify user was created
	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash123", got.PasswordHash)
	assert.Equal(t, "Alice Smith", got.RealName)
	assert.Equal(t, user.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
}

func TestUserStorage_CreateUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")

	err := s.CreateUser(ctx, &models.User{
		ID:           uuid.New().String(),
		Username:     "alice",
		PasswordHash: "other",
		CreatedAt:    time.Now(),
	})
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestUserStorage_Get(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, ctx, s, "bob")

	tests := []struct {
		wantErr error
		get     func() (*models.User, error)
		name    string
	}{
		{
			name: "by username",
			get:  func() (*models.User, error) { return s.GetUserByUsername(ctx, "bob") },
		},
		{
			name: "by id",
			get:  func() (*models.User, error) { return s.GetUserByID(ctx, user.ID) },
		},
		{
			name:    "unknown username",
			get:     func() (*models.User, error) { return s.GetUserByUsername(ctx, "nobody") },
			wantErr: storage.ErrUserNotFound,
		},
		{
			name:    "unknown id",
			get:     func() (*models.User, error) { return s.GetUserByID(ctx, uuid.New().String()) },
			wantErr: storage.ErrUserNotFound,
		},
		{
			name:    "username is case sensitive",
			get:     func() (*models.User, error) { return s.GetUserByUsername(ctx, "BOB") },
			wantErr: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, "bob", got.Username)
		})
	}
}
