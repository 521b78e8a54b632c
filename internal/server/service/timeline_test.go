package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/microblog/internal/models"
	"github.com/iudanet/microblog/internal/validation"
)

func TestMergeNewestFirst(t *testing.T) {
	run := func(ids ...int64) []*models.Post {
		posts := make([]*models.Post, 0, len(ids))
		for _, id := range ids {
			posts = append(posts, &models.Post{ID: id})
		}
		return posts
	}

	tests := []struct {
		name  string
		runs  [][]*models.Post
		want  []int64
		limit int
	}{
		{name: "no runs", runs: nil, limit: 3, want: []int64{}},
		{name: "empty runs", runs: [][]*models.Post{run(), run()}, limit: 3, want: []int64{}},
		{name: "single run", runs: [][]*models.Post{run(5, 3, 1)}, limit: 5, want: []int64{5, 3, 1}},
		{
			name:  "interleaved",
			runs:  [][]*models.Post{run(9, 4, 2), run(8, 7, 1), run(6, 5, 3)},
			limit: 10,
			want:  []int64{9, 8, 7, 6, 5, 4, 3, 2, 1},
		},
		{
			name:  "limited",
			runs:  [][]*models.Post{run(9, 4, 2), run(8, 7, 1), run(6, 5, 3)},
			limit: 4,
			want:  []int64{9, 8, 7, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postIDs(mergeNewestFirst(tt.runs, tt.limit)))
		})
	}
}

func TestTimelineService_Timeline(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	env.timeline.pager.size = 3
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	dave := env.register(t, "dave")

	require.NoError(t, env.graph.Follow(ctx, alice, "alice", "bob"))
	require.NoError(t, env.graph.Follow(ctx, alice, "alice", "carol"))

	var want []int64
	for i := 0; i < 4; i++ {
		for _, p := range []*models.Principal{bob, carol, dave, alice} {
			post, err := env.posts.Create(ctx, p, p.Username, "post")
			require.NoError(t, err)
			if p == bob || p == carol {
				want = append([]int64{post.ID}, want...)
			}
		}
	}
	require.Len(t, want, 8)

	var got []int64
	next := ""
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5, "pagination must terminate")

		page, err := env.timeline.Timeline(ctx, alice, "alice", next)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page.Posts), 3)
		for _, p := range page.Posts {
			assert.Contains(t, []string{"bob", "carol"}, p.Author)
		}
		got = append(got, postIDs(page.Posts)...)

		if page.Next == "" {
			break
		}
		next = page.Next
	}

	assert.Equal(t, want, got)
}

func TestTimelineService_StableCursor(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	env.timeline.pager.size = 2
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	require.NoError(t, env.graph.Follow(ctx, alice, "alice", "bob"))

	var ids []int64
	for i := 0; i < 4; i++ {
		post, err := env.posts.Create(ctx, bob, "bob", "post")
		require.NoError(t, err)
		ids = append(ids, post.ID)
	}

	page, err := env.timeline.Timeline(ctx, alice, "alice", "")
	require.NoError(t, err)
	require.Equal(t, []int64{ids[3], ids[2]}, postIDs(page.Posts))

	_, err = env.posts.Create(ctx, bob, "bob", "newer")
	require.NoError(t, err)
	require.NoError(t, env.posts.Delete(ctx, bob, ids[2]))

	page, err = env.timeline.Timeline(ctx, alice, "alice", page.Next)
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1], ids[0]}, postIDs(page.Posts))
	assert.Empty(t, page.Next)
}

func TestTimelineService_Errors(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	env.posts.pager.size = 1
	alice := env.register(t, "alice")

	_, err := env.timeline.Timeline(ctx, alice, "bob", "")
	assert.ErrorIs(t, err, ErrForbidden)

	// Курсор списка постов не подходит для ленты
	for i := 0; i < 2; i++ {
		_, err = env.posts.Create(ctx, alice, "alice", "post")
		require.NoError(t, err)
	}
	postsPage, err := env.posts.ListByAuthor(ctx, "alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, postsPage.Next)

	_, err = env.timeline.Timeline(ctx, alice, "alice", postsPage.Next)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, validation.Errors{"cursor": {validation.MsgInvalid}}, errs)

	// Без подписок лента пуста
	page, err := env.timeline.Timeline(ctx, alice, "alice", "")
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Empty(t, page.Next)
}
