package repository

import (
	"context"
	"testing"

	"github.com/blogsystem/blog-api/internal/post"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	p := &post.Post{Title: "First", Content: "hello", AuthorID: "a1", Status: post.StatusPublished}
	created, err := r.Create(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", got.Content)

	got.Content = "new content"
	require.NoError(t, r.Update(ctx, got))
	got2, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "new content", got2.Content)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, created.ID), ErrNotFound)
}

func TestMemoryRepoListFilters(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	seed := []*post.Post{
		{Title: "Go tips", Content: "<p>Generics and friends</p>", AuthorID: "a1"},
		{Title: "Cooking", Content: "Pasta with GO sauce", AuthorID: "a2"},
		{Title: "Travel", Content: "Mountains", AuthorID: "a1"},
	}
	for _, p := range seed {
		_, err := r.Create(ctx, p)
		require.NoError(t, err)
	}

	// no filters: all posts, newest first
	all, err := r.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Travel", all[0].Title)
	require.Equal(t, "Go tips", all[2].Title)

	// search matches title or content, case-insensitively
	found, err := r.List(ctx, Filter{Search: "go"})
	require.NoError(t, err)
	require.Len(t, found, 2)

	// author filter
	mine, err := r.List(ctx, Filter{Author: "a1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	// search AND author
	both, err := r.List(ctx, Filter{Search: "go", Author: "a1"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, "Go tips", both[0].Title)

	// no match
	none, err := r.List(ctx, Filter{Search: "zzz"})
	require.NoError(t, err)
	require.Empty(t, none)
}
