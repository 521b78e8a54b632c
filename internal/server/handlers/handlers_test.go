package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/cursor"
	"github.com/iudanet/microblog/internal/server/service"
	"github.com/iudanet/microblog/internal/server/storage/sqldb"
)

const testPublicURL = "http://localhost:12346"

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testHandlers struct {
	store    *sqldb.Storage
	accounts *service.AccountService
	tokens   *service.TokenService
	posts    *service.PostService
	graph    *service.GraphService
	users    *UserHandler
	post     *PostHandler
	follow   *FollowHandler
}

func setupTestHandlers(t *testing.T) *testHandlers {
	t.Helper()

	store, err := sqldb.New(context.Background(), sqldb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := setupTestLogger()
	codec := cursor.NewCodec([]byte("test-secret"))

	accounts := service.NewAccountService(logger, store, store, 10)
	tokens := service.NewTokenService(logger, store, nil)
	posts := service.NewPostService(logger, store, store, codec)
	graph := service.NewGraphService(logger, store, store)
	timeline := service.NewTimelineService(logger, store, store, codec)

	return &testHandlers{
		store:    store,
		accounts: accounts,
		tokens:   tokens,
		posts:    posts,
		graph:    graph,
		users:    NewUserHandler(logger, testPublicURL, accounts, tokens),
		post:     NewPostHandler(logger, testPublicURL, posts),
		follow:   NewFollowHandler(logger, testPublicURL, graph, timeline),
	}
}

func (h *testHandlers) register(t *testing.T, username string) *models.Principal {
	t.Helper()

	user, err := h.accounts.CreateUser(context.Background(), username, "password123", "Real "+username)
	require.NoError(t, err)

	return &models.Principal{UserID: user.ID, Username: user.Username}
}

// newRequest создает запрос с JSON телом, path values и principal
func newRequest(t *testing.T, method, target string, body any, principal *models.Principal, pathValues ...string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}

	if principal != nil {
		req = req.WithContext(WithPrincipal(req.Context(), principal))
	}

	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}
