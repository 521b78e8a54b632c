package models

import "time"

// User представляет пользователя микроблога
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время регистрации
	ID           string    `json:"id"`         // UUID пользователя
	Username     string    `json:"username"`   // уникальный, неизменяемый username
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля
	RealName     string    `json:"real_name"`  // отображаемое имя
}

// Token представляет выданный bearer token.
// В хранилище попадает только SHA256 digest значения, сам токен знает лишь клиент.
type Token struct {
	CreatedAt time.Time `json:"created_at"`
	Digest    string    `json:"digest"`  // hex SHA256 от значения токена
	UserID    string    `json:"user_id"` // владелец токена
}

// Principal это пользователь, от имени которого выполняется запрос
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
