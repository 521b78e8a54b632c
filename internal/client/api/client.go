package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/microblog/pkg/api"
)

// APIError ошибка, возвращенная сервером
type APIError struct {
	Errors     map[string][]string // ошибки валидации (422)
	Message    string
	StatusCode int
}

// Error implements error
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		fields := make([]string, 0, len(e.Errors))
		for field := range e.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+" "+strings.Join(e.Errors[field], ", "))
		}
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, strings.Join(parts, "; "))
	}
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus сообщает, что err это APIError с указанным статусом
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Сервер отвечает 303 на создание ресурсов, Location нужен вызывающему
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// WithToken возвращает копию клиента, отправляющую bearer токен
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Token возвращает текущий bearer токен
func (c *Client) Token() string {
	return c.token
}

// BaseURL возвращает адрес сервера
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateUser регистрирует пользователя и возвращает URL его профиля
func (c *Client) CreateUser(ctx context.Context, req api.CreateUserRequest) (string, error) {
	header, err := c.doRequest(ctx, http.MethodPost, "/users", req, http.StatusSeeOther, nil)
	if err != nil {
		return "", fmt.Errorf("create user request failed: %w", err)
	}
	return header.Get("Location"), nil
}

// CreateToken выдает новый токен по username и паролю
func (c *Client) CreateToken(ctx context.Context, username, password string) (string, error) {
	var resp api.TokenResponse
	req := api.CreateTokenRequest{Username: username, Password: password}
	if _, err := c.doRequest(ctx, http.MethodPost, "/tokens", req, http.StatusOK, &resp); err != nil {
		return "", fmt.Errorf("create token request failed: %w", err)
	}
	return resp.Token, nil
}

// GetUser получает профиль пользователя
func (c *Client) GetUser(ctx context.Context, username string) (*api.UserResponse, error) {
	var resp api.UserResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &resp, nil
}

// CreatePost публикует пост и возвращает его id
func (c *Client) CreatePost(ctx context.Context, username, text string) (int64, error) {
	p := "/users/" + url.PathEscape(username) + "/posts"
	header, err := c.doRequest(ctx, http.MethodPost, p, api.CreatePostRequest{Text: text}, http.StatusSeeOther, nil)
	if err != nil {
		return 0, fmt.Errorf("create post request failed: %w", err)
	}

	location, err := url.Parse(header.Get("Location"))
	if err != nil {
		return 0, fmt.Errorf("invalid Location header: %w", err)
	}
	id, err := strconv.ParseInt(path.Base(location.Path), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid post Location %q: %w", location, err)
	}

	return id, nil
}

// GetPost получает пост по id
func (c *Client) GetPost(ctx context.Context, id int64) (*api.PostResponse, error) {
	var resp api.PostResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/posts/"+strconv.FormatInt(id, 10), nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("get post request failed: %w", err)
	}
	return &resp, nil
}

// DeletePost удаляет пост
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/posts/"+strconv.FormatInt(id, 10), nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("delete post request failed: %w", err)
	}
	return nil
}

// ListPosts получает первую страницу постов пользователя
func (c *Client) ListPosts(ctx context.Context, username string) (*api.PostListResponse, error) {
	return c.page(ctx, "/users/"+url.PathEscape(username)+"/posts")
}

// Timeline получает первую страницу ленты пользователя
func (c *Client) Timeline(ctx context.Context, username string) (*api.PostListResponse, error) {
	return c.page(ctx, "/users/"+url.PathEscape(username)+"/timeline")
}

// ErrForeignNext ссылка next ведет не на сервер клиента
var ErrForeignNext = errors.New("next link points to another server")

// Next загружает страницу по ссылке next из предыдущего ответа.
// Токен отправляется только на baseURL, поэтому ссылка на другой
// scheme или host отклоняется с ErrForeignNext
func (c *Client) Next(ctx context.Context, next string) (*api.PostListResponse, error) {
	if next == "" {
		return nil, errors.New("no next page")
	}
	if err := c.checkOrigin(next); err != nil {
		return nil, err
	}
	return c.page(ctx, next)
}

func (c *Client) checkOrigin(target string) error {
	if strings.HasPrefix(target, "/") {
		return nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid next link: %w", err)
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	if !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
		return fmt.Errorf("%w: %s://%s", ErrForeignNext, u.Scheme, u.Host)
	}

	return nil
}

func (c *Client) page(ctx context.Context, target string) (*api.PostListResponse, error) {
	var resp api.PostListResponse
	if _, err := c.doRequest(ctx, http.MethodGet, target, nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("list posts request failed: %w", err)
	}
	return &resp, nil
}

// Follow подписывает username на other
func (c *Client) Follow(ctx context.Context, username, other string) error {
	p := "/users/" + url.PathEscape(username) + "/following/" + url.PathEscape(other)
	if _, err := c.doRequest(ctx, http.MethodPut, p, nil, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("follow request failed: %w", err)
	}
	return nil
}

// Unfollow отписывает username от other
func (c *Client) Unfollow(ctx context.Context, username, other string) error {
	p := "/users/" + url.PathEscape(username) + "/following/" + url.PathEscape(other)
	if _, err := c.doRequest(ctx, http.MethodDelete, p, nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("unfollow request failed: %w", err)
	}
	return nil
}

// Health проверяет состояние сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/health", nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос. target это путь относительно baseURL
// или абсолютный URL (ссылки next). Статус, отличный от want, возвращается как *APIError
func (c *Client) doRequest(ctx context.Context, method, target string, body interface{}, want int, result interface{}) (http.Header, error) {
	reqURL := target
	if strings.HasPrefix(target, "/") {
		reqURL = c.baseURL + target
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authentication", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var validationResp api.ValidationErrorResponse
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &validationResp); err == nil && len(validationResp.Errors) > 0 {
			apiErr.Errors = validationResp.Errors
		} else if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Message = errResp.Message
		}
		return nil, apiErr
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.Header, nil
}
