package service

import (
	"math"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/server/cursor"
	"github.com/iudanet/microblog/internal/validation"
)

// DefaultPageSize количество постов на странице
const DefaultPageSize = 50

// Page это одна страница списка постов, от новых к старым.
// Next содержит курсор следующей страницы или пустую строку.
type Page struct {
	Next  string
	Posts []*models.Post
}

// pager реализует keyset пагинацию: страница содержит посты с id < before,
// запрашивается limit+1 строк, лишняя строка означает наличие продолжения
type pager struct {
	codec *cursor.Codec
	size  int
}

// before декодирует курсор. Без курсора список начинается с самого нового поста
func (p pager) before(scope, value string) (int64, error) {
	if value == "" {
		return math.MaxInt64, nil
	}

	before, err := p.codec.Decode(scope, value)
	if err != nil {
		return 0, validation.Single("cursor", validation.MsgInvalid)
	}

	return before, nil
}

// page обрезает выборку из size+1 постов до size и выпускает курсор
func (p pager) page(scope string, posts []*models.Post) (*Page, error) {
	if len(posts) <= p.size {
		return &Page{Posts: posts}, nil
	}

	posts = posts[:p.size]
	next, err := p.codec.Encode(scope, posts[len(posts)-1].ID)
	if err != nil {
		return nil, err
	}

	return &Page{Posts: posts, Next: next}, nil
}
