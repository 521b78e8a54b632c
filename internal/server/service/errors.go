// Package service содержит бизнес-логику микроблога поверх storage.
//
// Ошибки сервисного слоя:
//   - validation.Errors: некорректные поля запроса (422)
//   - ErrUnauthorized: нет или неверные учетные данные (401)
//   - ErrForbidden: операция от имени другого пользователя (403)
//   - ErrNotFound: ресурс не существует (404)
//
// Остальные ошибки считаются внутренними.
package service

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates that principal may not act on the resource
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates that requested resource does not exist
	ErrNotFound = errors.New("not found")
)
