// Package cursor выпускает и проверяет непрозрачные курсоры пагинации.
//
// Курсор это HS256 JWT с claims {sub: <scope>, bid: <before id>}.
// Scope привязывает курсор к конкретному списку (например "posts:alice"),
// поэтому курсор одной ленты нельзя подставить в другую.
package cursor

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCursor возвращается для любого курсора, который не удалось проверить
var ErrInvalidCursor = errors.New("invalid cursor")

// Claims представляет claims курсора
type Claims struct {
	Before int64 `json:"bid"`
	jwt.RegisteredClaims
}

// Codec подписывает и проверяет курсоры общим секретом
type Codec struct {
	secret []byte
}

// NewCodec creates a new cursor codec
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// PostsScope returns scope for GET /users/:username/posts
func PostsScope(username string) string {
	return "posts:" + username
}

// TimelineScope returns scope for GET /users/:username/timeline
func TimelineScope(username string) string {
	return "timeline:" + username
}

// Encode создает курсор: следующая страница содержит только id < before
func (c *Codec) Encode(scope string, before int64) (string, error) {
	claims := Claims{
		Before: before,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: scope,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	value, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign cursor: %w", err)
	}

	return value, nil
}

// Decode проверяет подпись и scope курсора и возвращает before id
func (c *Codec) Decode(scope, value string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(scope),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidCursor
	}

	if claims.Before <= 0 {
		return 0, ErrInvalidCursor
	}

	return claims.Before, nil
}
