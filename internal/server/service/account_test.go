package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/crypto"
	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/storage"
	"github.com/iudanet/microblog/internal/validation"
)

func TestAccountService_CreateUser(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	user, err := env.accounts.CreateUser(ctx, "alice", "password123", "Alice Smith")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice Smith", user.RealName)

	// Пароль хранится только в виде bcrypt хеша
	stored, err := env.store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2a$10$"), stored.PasswordHash)
	assert.NoError(t, crypto.VerifyPassword(stored.PasswordHash, "password123"))
}

func TestAccountService_CreateUser_Validation(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	env.register(t, "taken")

	tests := []struct {
		want     validation.Errors
		name     string
		username string
		password string
		realName string
	}{
		{
			name:     "username taken",
			username: "taken",
			password: "password123",
			want:     validation.Errors{"username": {validation.MsgTaken}},
		},
		{
			name:     "password too short",
			username: "fresh",
			password: "abcd",
			want:     validation.Errors{"password": {validation.MsgTooShort}},
		},
		{
			name:     "taken and short password reported together",
			username: "taken",
			password: "abcd",
			want: validation.Errors{
				"username": {validation.MsgTaken},
				"password": {validation.MsgTooShort},
			},
		},
		{
			name:     "blank username",
			username: "",
			password: "password123",
			want:     validation.Errors{"username": {validation.MsgBlank}},
		},
		{
			name:     "invalid username",
			username: "no spaces",
			password: "password123",
			want:     validation.Errors{"username": {validation.MsgInvalid}},
		},
		{
			name:     "real name too long",
			username: "fresh",
			password: "password123",
			realName: strings.Repeat("x", validation.MaxRealNameLen+1),
			want:     validation.Errors{"real_name": {validation.MsgTooLong}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.accounts.CreateUser(ctx, tt.username, tt.password, tt.realName)
			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.want, errs)
		})
	}
}

// raceUsers имитирует регистрацию того же username между проверкой и вставкой
type raceUsers struct {
	storage.UserStorage
}

func (raceUsers) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, storage.ErrUserNotFound
}

func (raceUsers) CreateUser(context.Context, *models.User) error {
	return storage.ErrUserAlreadyExists
}

func TestAccountService_CreateUser_InsertRace(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewAccountService(setupTestLogger(), raceUsers{}, env.store, 10)

	_, err := svc.CreateUser(context.Background(), "alice", "password123", "")
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, validation.Errors{"username": {validation.MsgTaken}}, errs)
}

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	alice := env.register(t, "alice")

	user, err := env.accounts.Authenticate(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, user.ID)

	_, err = env.accounts.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.accounts.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAccountService_GetProfile(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	env.register(t, "carol")

	require.NoError(t, env.graph.Follow(ctx, alice, "alice", "carol"))
	require.NoError(t, env.graph.Follow(ctx, alice, "alice", "bob"))
	require.NoError(t, env.graph.Follow(ctx, bob, "bob", "alice"))

	profile, err := env.accounts.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.User.Username)
	assert.Equal(t, "Real alice", profile.User.RealName)
	assert.Equal(t, []string{"bob"}, profile.Followers)
	assert.Equal(t, []string{"bob", "carol"}, profile.Following)

	profile, err = env.accounts.GetProfile(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, profile.Followers)
	assert.Empty(t, profile.Following)

	_, err = env.accounts.GetProfile(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
