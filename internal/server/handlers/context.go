package handlers

import (
	"context"

	"github.com/iudanet/microblog/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

// PrincipalKey ключ для хранения аутентифицированного пользователя в контексте
const PrincipalKey contextKey = "principal"

// WithPrincipal возвращает контекст с principal
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// GetPrincipal извлекает principal из контекста запроса
func GetPrincipal(ctx context.Context) (*models.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return principal, ok && principal != nil
}
