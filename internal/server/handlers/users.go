package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/iudanet/microblog/internal/server/service"
	"github.com/iudanet/microblog/pkg/api"
)

// UserHandler обрабатывает запросы пользователей и токенов
type UserHandler struct {
	responder
	accounts *service.AccountService
	tokens   *service.TokenService
}

// NewUserHandler создает новый handler пользователей
func NewUserHandler(logger *slog.Logger, publicURL string, accounts *service.AccountService, tokens *service.TokenService) *UserHandler {
	return &UserHandler{
		responder: newResponder(logger, publicURL),
		accounts:  accounts,
		tokens:    tokens,
	}
}

// CreateUser обрабатывает POST /users
// Регистрация нового пользователя, 303 на его профиль
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.CreateUserRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.CreateUser(r.Context(), req.Username, req.Password, req.RealName)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.redirect(w, r, "/users/"+url.PathEscape(user.Username))
}

// GetUser обрабатывает GET /users/{username}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := api.UserResponse{
		Username:  profile.User.Username,
		RealName:  profile.User.RealName,
		Followers: profile.Followers,
		Following: profile.Following,
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// CreateToken обрабатывает POST /tokens
// Выдает новый bearer токен по username и паролю
func (h *UserHandler) CreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateTokenRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.accounts.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			h.logger.WarnContext(ctx, "login failed", slog.String("username", req.Username))
		}
		h.handleError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(ctx, user)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.sendJSON(w, api.TokenResponse{Token: token}, http.StatusOK)
}
