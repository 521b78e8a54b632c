package service

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/cursor"
	"github.com/iudanet/microblog/internal/server/storage"
)

// maxParallelFetches ограничивает число одновременных запросов к БД
const maxParallelFetches = 8

// TimelineService собирает ленту из постов подписок
type TimelineService struct {
	logger  *slog.Logger
	follows storage.FollowStorage
	posts   storage.PostStorage
	pager   pager
}

// NewTimelineService создает новый сервис ленты
func NewTimelineService(logger *slog.Logger, follows storage.FollowStorage, posts storage.PostStorage, codec *cursor.Codec) *TimelineService {
	return &TimelineService{
		logger:  logger,
		follows: follows,
		posts:   posts,
		pager:   pager{codec: codec, size: DefaultPageSize},
	}
}

// Timeline возвращает страницу ленты username.
// Для каждой подписки берется до size+1 постов с id < before: верхние size+1
// постов объединения всегда содержатся среди них. Затем отсортированные
// по убыванию id серии сливаются через heap.
func (s *TimelineService) Timeline(ctx context.Context, principal *models.Principal, username, cursorValue string) (*Page, error) {
	if principal.Username != username {
		return nil, ErrForbidden
	}

	scope := cursor.TimelineScope(username)
	before, err := s.pager.before(scope, cursorValue)
	if err != nil {
		return nil, err
	}

	followees, err := s.follows.ListFollowing(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}

	limit := s.pager.size + 1
	runs := make([][]*models.Post, len(followees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, followee := range followees {
		g.Go(func() error {
			posts, err := s.posts.ListPostsByAuthor(gctx, followee.ID, before, limit)
			if err != nil {
				return fmt.Errorf("failed to list posts of %s: %w", followee.Username, err)
			}
			runs[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.pager.page(scope, mergeNewestFirst(runs, limit))
}

// mergeNewestFirst сливает серии, каждая из которых отсортирована по убыванию id,
// и возвращает не более limit постов
func mergeNewestFirst(runs [][]*models.Post, limit int) []*models.Post {
	h := make(runHeap, 0, len(runs))
	for _, run := range runs {
		if len(run) > 0 {
			h = append(h, run)
		}
	}
	heap.Init(&h)

	merged := make([]*models.Post, 0, limit)
	for h.Len() > 0 && len(merged) < limit {
		run := h[0]
		merged = append(merged, run[0])
		if len(run) == 1 {
			heap.Pop(&h)
			continue
		}
		h[0] = run[1:]
		heap.Fix(&h, 0)
	}

	return merged
}

// runHeap это max-heap серий по id головного поста
type runHeap [][]*models.Post

func (h runHeap) Len() int           { return len(h) }
func (h runHeap) Less(i, j int) bool { return h[i][0].ID > h[j][0].ID }
func (h runHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *runHeap) Push(x any) {
	*h = append(*h, x.([]*models.Post))
}

func (h *runHeap) Pop() any {
	old := *h
	n := len(old)
	run := old[n-1]
	*h = old[:n-1]
	return run
}
