package models

import "time"

// Post представляет сообщение пользователя.
// ID монотонно растет и никогда не переиспользуется, поэтому служит
// одновременно ключом сортировки и курсором пагинации.
type Post struct {
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	Author    string    `json:"author"` // username автора
	Text      string    `json:"text"`
	ID        int64     `json:"id"`
}
