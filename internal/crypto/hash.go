package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// TokenBytes количество случайных байт в bearer токене
const TokenBytes = 32

// GenerateToken создает новый непрозрачный bearer token:
// 32 байта из crypto/rand, закодированные base64url без паддинга
func GenerateToken() (string, error) {
	tokenBytes := make([]byte, TokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

// HashToken возвращает hex-encoded SHA256 от токена.
// В БД хранится только digest, поэтому утечка таблицы tokens не раскрывает токены.
func HashToken(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	hash := sha256.Sum256([]byte(token))

	return hex.EncodeToString(hash[:]), nil
}
