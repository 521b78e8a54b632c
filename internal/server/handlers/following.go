package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/microblog/internal/server/service"
)

// FollowHandler обрабатывает подписки и ленту
type FollowHandler struct {
	responder
	graph    *service.GraphService
	timeline *service.TimelineService
}

// NewFollowHandler создает новый handler подписок
func NewFollowHandler(logger *slog.Logger, publicURL string, graph *service.GraphService, timeline *service.TimelineService) *FollowHandler {
	return &FollowHandler{
		responder: newResponder(logger, publicURL),
		graph:     graph,
		timeline:  timeline,
	}
}

// Follow обрабатывает PUT /users/{username}/following/{other}
// Повторная подписка тоже отвечает 201
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.graph.Follow(r.Context(), principal, r.PathValue("username"), r.PathValue("other")); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Unfollow обрабатывает DELETE /users/{username}/following/{other}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.graph.Unfollow(r.Context(), principal, r.PathValue("username"), r.PathValue("other")); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Timeline обрабатывает GET /users/{username}/timeline?cursor=
func (h *FollowHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	page, err := h.timeline.Timeline(r.Context(), principal, r.PathValue("username"), r.URL.Query().Get("cursor"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.sendPage(w, r, page)
}
