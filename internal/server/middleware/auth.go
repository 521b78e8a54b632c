package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/handlers"
	"github.com/iudanet/microblog/internal/server/service"
)

// TokenResolver разрешает bearer токен в principal
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*models.Principal, error)
}

// tokenScheme схема в заголовке: "Authentication: Token <value>"
const tokenScheme = "Token"

// AuthMiddleware создает middleware для проверки bearer токена.
// Токен читается из заголовка Authentication, затем из Authorization.
func AuthMiddleware(logger *slog.Logger, resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authentication")
			if authHeader == "" {
				authHeader = r.Header.Get("Authorization")
			}
			if authHeader == "" {
				logger.DebugContext(ctx, "missing Authentication header")
				writeError(w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Token <value>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], tokenScheme) || strings.TrimSpace(parts[1]) == "" {
				logger.WarnContext(ctx, "invalid Authentication header format")
				writeError(w, "invalid token format", http.StatusUnauthorized)
				return
			}

			principal, err := resolver.Resolve(ctx, strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					logger.WarnContext(ctx, "invalid token")
					writeError(w, "invalid token", http.StatusUnauthorized)
					return
				}
				logger.ErrorContext(ctx, "failed to resolve token", slog.Any("error", err))
				writeError(w, "internal server error", http.StatusInternalServerError)
				return
			}

			logger.DebugContext(ctx, "user authenticated",
				slog.String("user_id", principal.UserID),
				slog.String("username", principal.Username))

			next.ServeHTTP(w, r.WithContext(handlers.WithPrincipal(ctx, principal)))
		})
	}
}
