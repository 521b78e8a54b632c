package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/pkg/api"
)

func TestUserHandler_CreateUser_Success(t *testing.T) {
	h := setupTestHandlers(t)

	req := newRequest(t, http.MethodPost, "/users", api.CreateUserRequest{
		Username: "alice",
		Password: "password123",
		RealName: "Alice Smith",
	}, nil)
	w := httptest.NewRecorder()
	h.users.CreateUser(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, testPublicURL+"/users/alice", w.Header().Get("Location"))

	// Verify user was created in storage
	user, err := h.store.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", user.RealName)
}

func TestUserHandler_CreateUser_Errors(t *testing.T) {
	h := setupTestHandlers(t)
	h.register(t, "taken")

	tests := []struct {
		body       any
		wantErrors map[string][]string
		name       string
		wantStatus int
	}{
		{
			name:       "username taken",
			body:       api.CreateUserRequest{Username: "taken", Password: "password123"},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string][]string{"username": {"is taken"}},
		},
		{
			name:       "password too short",
			body:       api.CreateUserRequest{Username: "fresh", Password: "abcd"},
			wantStatus: http.StatusUnprocessableEntity,
			wantErrors: map[string][]string{"password": {"is too short"}},
		},
		{
			name:       "invalid json",
			body:       nil,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodPost, "/users", tt.body, nil)
			if tt.body == nil {
				req = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{invalid"))
			}
			w := httptest.NewRecorder()
			h.users.CreateUser(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Empty(t, w.Header().Get("Location"))

			if tt.wantErrors != nil {
				var resp api.ValidationErrorResponse
				decodeBody(t, w, &resp)
				assert.Equal(t, tt.wantErrors, resp.Errors)
			}
		})
	}
}

func TestUserHandler_CreateUser_LocationFromRequestHost(t *testing.T) {
	h := setupTestHandlers(t)
	handler := NewUserHandler(setupTestLogger(), "", h.accounts, h.tokens)

	req := newRequest(t, http.MethodPost, "/users", api.CreateUserRequest{
		Username: "bob",
		Password: "password123",
	}, nil)
	req.Host = "microblog.test:8080"
	w := httptest.NewRecorder()
	handler.CreateUser(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "http://microblog.test:8080/users/bob", w.Header().Get("Location"))
}

func TestUserHandler_GetUser(t *testing.T) {
	h := setupTestHandlers(t)
	alice := h.register(t, "alice")
	h.register(t, "bob")
	require.NoError(t, h.graph.Follow(context.Background(), alice, "alice", "bob"))

	req := newRequest(t, http.MethodGet, "/users/alice", nil, nil, "username", "alice")
	w := httptest.NewRecorder()
	h.users.GetUser(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.UserResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, api.UserResponse{
		Username:  "alice",
		RealName:  "Real alice",
		Followers: []string{},
		Following: []string{"bob"},
	}, resp)

	req = newRequest(t, http.MethodGet, "/users/nobody", nil, nil, "username", "nobody")
	w = httptest.NewRecorder()
	h.users.GetUser(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_CreateToken(t *testing.T) {
	h := setupTestHandlers(t)
	alice := h.register(t, "alice")

	req := newRequest(t, http.MethodPost, "/tokens", api.CreateTokenRequest{
		Username: "alice",
		Password: "password123",
	}, nil)
	w := httptest.NewRecorder()
	h.users.CreateToken(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.TokenResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)

	principal, err := h.tokens.Resolve(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, alice, principal)

	tests := []struct {
		name string
		body api.CreateTokenRequest
	}{
		{name: "wrong password", body: api.CreateTokenRequest{Username: "alice", Password: "wrong-password"}},
		{name: "unknown user", body: api.CreateTokenRequest{Username: "nobody", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, http.MethodPost, "/tokens", tt.body, nil)
			w := httptest.NewRecorder()
			h.users.CreateToken(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var resp api.ErrorResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, "Unauthorized", resp.Error)
		})
	}
}
