package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/microblog/internal/server/service"
	"github.com/iudanet/microblog/pkg/api"
)

// PostHandler обрабатывает запросы постов
type PostHandler struct {
	responder
	posts *service.PostService
}

// NewPostHandler создает новый handler постов
func NewPostHandler(logger *slog.Logger, publicURL string, posts *service.PostService) *PostHandler {
	return &PostHandler{
		responder: newResponder(logger, publicURL),
		posts:     posts,
	}
}

// CreatePost обрабатывает POST /users/{username}/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req api.CreatePostRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	post, err := h.posts.Create(r.Context(), principal, r.PathValue("username"), req.Text)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.redirect(w, r, "/posts/"+strconv.FormatInt(post.ID, 10))
}

// GetPost обрабатывает GET /posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.sendJSON(w, toPostResponse(post), http.StatusOK)
}

// DeletePost обрабатывает DELETE /posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), principal, id); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPosts обрабатывает GET /users/{username}/posts?cursor=
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := h.posts.ListByAuthor(r.Context(), r.PathValue("username"), r.URL.Query().Get("cursor"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.sendPage(w, r, page)
}

// postID разбирает id поста. Нечисловой id означает несуществующий пост
func (h *PostHandler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.sendError(w, "not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}
