package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/service"
	"github.com/iudanet/microblog/internal/validation"
	"github.com/iudanet/microblog/pkg/api"
)

// maxBodyBytes ограничивает размер JSON тела запроса
const maxBodyBytes = 1 << 20

// responder содержит общие для всех handlers функции ответа
type responder struct {
	logger    *slog.Logger
	publicURL string // например "https://api.example.com"; пусто = из запроса
}

func newResponder(logger *slog.Logger, publicURL string) responder {
	return responder{
		logger:    logger,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// decodeJSON читает JSON тело запроса. При ошибке отправляет 400
func (h responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// sendJSON отправляет JSON ответ
func (h responder) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h responder) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}

// handleError переводит ошибку сервисного слоя в HTTP ответ
func (h responder) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var errs validation.Errors
	switch {
	case errors.As(err, &errs):
		h.sendJSON(w, api.ValidationErrorResponse{Errors: errs}, http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrUnauthorized):
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, service.ErrForbidden):
		h.sendError(w, "not allowed to act on behalf of this user", http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		h.sendError(w, "not found", http.StatusNotFound)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}

// principal извлекает principal или отправляет 401
func (h responder) principal(w http.ResponseWriter, r *http.Request) (*models.Principal, bool) {
	principal, ok := GetPrincipal(r.Context())
	if !ok {
		h.sendError(w, "missing token", http.StatusUnauthorized)
		return nil, false
	}
	return principal, true
}

// absoluteURL строит абсолютный URL для path
func (h responder) absoluteURL(r *http.Request, path string) string {
	if h.publicURL != "" {
		return h.publicURL + path
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + r.Host + path
}

// redirect отправляет 303 See Other на созданный ресурс
func (h responder) redirect(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Location", h.absoluteURL(r, path))
	w.WriteHeader(http.StatusSeeOther)
}

// sendPage отправляет страницу постов; next ведет на тот же список с курсором
func (h responder) sendPage(w http.ResponseWriter, r *http.Request, page *service.Page) {
	resp := api.PostListResponse{
		Posts: make([]api.PostResponse, 0, len(page.Posts)),
	}
	for _, post := range page.Posts {
		resp.Posts = append(resp.Posts, toPostResponse(post))
	}

	if page.Next != "" {
		query := url.Values{"cursor": {page.Next}}
		resp.Next = h.absoluteURL(r, r.URL.Path) + "?" + query.Encode()
	}

	h.sendJSON(w, resp, http.StatusOK)
}

func toPostResponse(post *models.Post) api.PostResponse {
	return api.PostResponse{
		ID:        post.ID,
		Author:    post.Author,
		Text:      post.Text,
		CreatedAt: post.CreatedAt,
	}
}
