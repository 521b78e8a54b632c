package api

// CreateUserRequest представляет запрос POST /users
type CreateUserRequest struct {
	Username string `json:"username"`  // username пользователя
	Password string `json:"password"`  // пароль в открытом виде (только по TLS)
	RealName string `json:"real_name"` // отображаемое имя
}

// CreateTokenRequest представляет запрос POST /tokens
type CreateTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с новым bearer токеном
type TokenResponse struct {
	Token string `json:"token"` // передается в заголовке Authentication: Token <token>
}

// UserResponse представляет публичный профиль пользователя
type UserResponse struct {
	Username  string   `json:"username"`
	RealName  string   `json:"real_name"`
	Followers []string `json:"followers"` // usernames подписчиков по возрастанию
	Following []string `json:"following"` // usernames подписок по возрастанию
}

// ValidationErrorResponse представляет ответ 422: field -> messages
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
