package api

import "time"

// CreatePostRequest представляет запрос POST /users/{username}/posts
type CreatePostRequest struct {
	Text string `json:"text"`
}

// PostResponse представляет пост
type PostResponse struct {
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"` // username автора
	Text      string    `json:"text"`
	ID        int64     `json:"id"`
}

// PostListResponse представляет страницу постов, от новых к старым.
// Next это абсолютный URL следующей страницы, отсутствует на последней.
type PostListResponse struct {
	Next  string         `json:"next,omitempty"`
	Posts []PostResponse `json:"posts"`
}
