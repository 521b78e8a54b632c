package storage

import (
	"context"
)

// SessionStorage defines interface for storing the CLI session on client.
// Token хранится как есть: это единственная учетная информация клиента,
// файл сессии создается с правами 0600.
type SessionStorage interface {
	// SaveSession stores the current session, replacing the previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the current session
	// Returns ErrSessionNotFound if the user is not logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the current session (logout)
	// Returns ErrSessionNotFound if there is nothing to remove
	DeleteSession(ctx context.Context) error
}

// Session represents a logged in user
type Session struct {
	Server    string `json:"server"` // базовый URL сервера, выдавшего токен
	Username  string `json:"username"`
	Token     string `json:"token"`
	CreatedAt int64  `json:"created_at"` // unix seconds
}
