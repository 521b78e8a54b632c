package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/cursor"
	"github.com/iudanet/microblog/internal/server/storage/sqldb"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	store    *sqldb.Storage
	accounts *AccountService
	tokens   *TokenService
	posts    *PostService
	graph    *GraphService
	timeline *TimelineService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqldb.New(context.Background(), sqldb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := setupTestLogger()
	codec := cursor.NewCodec([]byte("test-secret"))

	return &testEnv{
		store:    store,
		accounts: NewAccountService(logger, store, store, 10),
		tokens:   NewTokenService(logger, store, nil),
		posts:    NewPostService(logger, store, store, codec),
		graph:    NewGraphService(logger, store, store),
		timeline: NewTimelineService(logger, store, store, codec),
	}
}

// register создает пользователя и возвращает его principal
func (e *testEnv) register(t *testing.T, username string) *models.Principal {
	t.Helper()

	user, err := e.accounts.CreateUser(context.Background(), username, "password123", "Real "+username)
	require.NoError(t, err)

	return &models.Principal{UserID: user.ID, Username: user.Username}
}
