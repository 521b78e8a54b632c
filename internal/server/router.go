package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/server/handlers"
	"github.com/iudanet/microblog/internal/server/middleware"
	"github.com/iudanet/microblog/internal/server/service"
)

// Services сервисный слой, обслуживаемый роутером
type Services struct {
	Accounts *service.AccountService
	Tokens   *service.TokenService
	Posts    *service.PostService
	Graph    *service.GraphService
	Timeline *service.TimelineService
}

// RouterConfig зависимости роутера
type RouterConfig struct {
	Logger    *slog.Logger
	DB        handlers.Pinger
	Limiter   *middleware.RateLimiter // nil отключает rate limit
	Services  Services
	PublicURL string
	Version   string
}

// NewRouter создает HTTP роутер со всеми маршрутами API
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	svc := cfg.Services

	users := handlers.NewUserHandler(logger, cfg.PublicURL, svc.Accounts, svc.Tokens)
	posts := handlers.NewPostHandler(logger, cfg.PublicURL, svc.Posts)
	follows := handlers.NewFollowHandler(logger, cfg.PublicURL, svc.Graph, svc.Timeline)
	health := handlers.NewHealthHandler(logger, cfg.DB, cfg.Version)

	auth := middleware.AuthMiddleware(logger, svc.Tokens)
	limited := func(h http.Handler) http.Handler { return h }
	if cfg.Limiter != nil {
		limited = cfg.Limiter.Middleware
	}

	mux := http.NewServeMux()

	// Регистрация и выдача токенов (без аутентификации, с rate limit)
	mux.Handle("POST /users", limited(http.HandlerFunc(users.CreateUser)))
	mux.Handle("POST /tokens", limited(http.HandlerFunc(users.CreateToken)))

	// Публичные маршруты
	mux.HandleFunc("GET /users/{username}", users.GetUser)
	mux.HandleFunc("GET /users/{username}/posts", posts.ListPosts)
	mux.HandleFunc("GET /posts/{id}", posts.GetPost)
	mux.HandleFunc("GET /health", health.Health)

	// Маршруты с аутентификацией
	mux.Handle("POST /users/{username}/posts", auth(http.HandlerFunc(posts.CreatePost)))
	mux.Handle("DELETE /posts/{id}", auth(http.HandlerFunc(posts.DeletePost)))
	mux.Handle("PUT /users/{username}/following/{other}", auth(http.HandlerFunc(follows.Follow)))
	mux.Handle("DELETE /users/{username}/following/{other}", auth(http.HandlerFunc(follows.Unfollow)))
	mux.Handle("GET /users/{username}/timeline", auth(http.HandlerFunc(follows.Timeline)))

	var handler http.Handler = mux
	handler = middleware.RecoveryMiddleware(logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/health"})(handler)

	return handler
}
