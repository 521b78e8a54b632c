package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Сообщения об ошибках валидации, возвращаемые клиенту как есть
const (
	MsgBlank    = "can't be blank"
	MsgInvalid  = "is invalid"
	MsgTaken    = "is taken"
	MsgTooShort = "is too short"
	MsgTooLong  = "is too long"
	MsgYourself = "can't be yourself"
)

// Errors собирает ошибки валидации по полям: field -> messages.
// Реализует error, чтобы проходить через сервисный слой без обертки.
type Errors map[string][]string

// Add добавляет сообщение к полю. Пустое сообщение игнорируется,
// что позволяет писать errs.Add("password", ValidatePassword(p)).
func (e Errors) Add(field, message string) {
	if message == "" {
		return
	}
	e[field] = append(e[field], message)
}

// Empty сообщает, что ошибок нет
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Error формирует стабильное (отсортированное по полям) описание
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, strings.Join(e[field], ", ")))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// Single возвращает Errors с одним сообщением
func Single(field, message string) Errors {
	return Errors{field: {message}}
}
