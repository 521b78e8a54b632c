package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 1-32 символа
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,32}$`)

const (
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxRealNameLen максимальная длина отображаемого имени
	MaxRealNameLen = 255
	// MaxPostLen максимальная длина поста в символах
	MaxPostLen = 280
)

// ValidateUsername проверяет username и возвращает сообщение об ошибке
// или пустую строку, если username корректен
func ValidateUsername(username string) string {
	if strings.TrimSpace(username) == "" {
		return MsgBlank
	}

	if !UsernamePattern.MatchString(username) {
		return MsgInvalid
	}

	return ""
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) string {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return MsgTooShort
	}

	return ""
}

// ValidateRealName проверяет отображаемое имя (может быть пустым)
func ValidateRealName(realName string) string {
	if utf8.RuneCountInString(realName) > MaxRealNameLen {
		return MsgTooLong
	}

	return ""
}

// ValidatePostText проверяет текст поста
func ValidatePostText(text string) string {
	if strings.TrimSpace(text) == "" {
		return MsgBlank
	}

	if utf8.RuneCountInString(text) > MaxPostLen {
		return MsgTooLong
	}

	return ""
}
