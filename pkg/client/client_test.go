package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blogsystem/blog-api/internal/post"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a minimal in-memory rendition of the post routes.
type fakeAPI struct {
	posts    []post.Post
	lastAuth string
	nextID   int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth = r.Header.Get("Authorization")
		switch r.Method {
		case http.MethodGet:
			out := f.posts
			if a := r.URL.Query().Get("author"); a != "" {
				out = nil
				for _, p := range f.posts {
					if p.AuthorID == a {
						out = append(out, p)
					}
				}
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"posts": out, "total": len(out)})
		case http.MethodPost:
			if f.lastAuth == "" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "missing Authorization header"})
				return
			}
			var in PostInput
			json.NewDecoder(r.Body).Decode(&in)
			if in.Title == "" || in.Content == "" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"message": "Title and content are required"})
				return
			}
			f.nextID++
			p := post.Post{
				ID: "p" + string(rune('0'+f.nextID)), Title: in.Title, Content: in.Content,
				Status: post.StatusPublished, AuthorID: "acc-1", CreatedAt: time.Now(),
			}
			f.posts = append([]post.Post{p}, f.posts...)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"message": "Post created successfully", "post": p})
		}
	})
	mux.HandleFunc("/api/posts/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/api/posts/"):]
		idx := -1
		for i, p := range f.posts {
			if p.ID == id {
				idx = i
			}
		}
		if idx < 0 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "Post not found"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"post": f.posts[idx]})
		case http.MethodPut:
			var in PostInput
			json.NewDecoder(r.Body).Decode(&in)
			if in.Title != "" {
				f.posts[idx].Title = in.Title
			}
			if in.Content != "" {
				f.posts[idx].Content = in.Content
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"message": "Post updated successfully", "post": f.posts[idx]})
		case http.MethodDelete:
			f.posts = append(f.posts[:idx], f.posts[idx+1:]...)
			json.NewEncoder(w).Encode(map[string]string{"message": "Post deleted successfully"})
		}
	})
	return mux
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return New(srv.URL, WithToken("tok-1"))
}

func TestFetchPosts_MirrorsList(t *testing.T) {
	api := &fakeAPI{posts: []post.Post{
		{ID: "p1", Title: "First", AuthorID: "acc-1"},
		{ID: "p2", Title: "Second", AuthorID: "acc-2"},
	}}
	c := newTestClient(t, api)

	got, err := c.FetchPosts(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	st := c.State()
	require.False(t, st.Loading)
	require.Empty(t, st.Err)
	require.Len(t, st.Posts, 2)
}

func TestFetchPosts_AuthorFilter(t *testing.T) {
	api := &fakeAPI{posts: []post.Post{
		{ID: "p1", Title: "Mine", AuthorID: "acc-1"},
		{ID: "p2", Title: "Theirs", AuthorID: "acc-2"},
	}}
	c := newTestClient(t, api)

	got, err := c.FetchPosts(context.Background(), "", "acc-2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Theirs", got[0].Title)
}

func TestCreatePost_Prepends(t *testing.T) {
	api := &fakeAPI{posts: []post.Post{{ID: "p1", Title: "Old"}}}
	c := newTestClient(t, api)

	_, err := c.FetchPosts(context.Background(), "", "")
	require.NoError(t, err)

	created, err := c.CreatePost(context.Background(), PostInput{Title: "New one", Content: "body"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	st := c.State()
	require.Len(t, st.Posts, 2)
	require.Equal(t, created.ID, st.Posts[0].ID)
	require.Equal(t, "p1", st.Posts[1].ID)
	require.Equal(t, "Bearer tok-1", api.lastAuth)
}

func TestCreatePost_ValidationErrSurfaces(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)

	_, err := c.CreatePost(context.Background(), PostInput{Title: "no content"})
	require.Error(t, err)
	require.Equal(t, "Title and content are required", err.Error())

	st := c.State()
	require.False(t, st.Loading)
	require.Equal(t, "Title and content are required", st.Err)
	require.Empty(t, st.Posts)
}

func TestUpdatePost_ReplacesInPlace(t *testing.T) {
	api := &fakeAPI{posts: []post.Post{
		{ID: "p1", Title: "First"},
		{ID: "p2", Title: "Second"},
	}}
	c := newTestClient(t, api)

	_, err := c.FetchPosts(context.Background(), "", "")
	require.NoError(t, err)
	_, err = c.FetchPost(context.Background(), "p2")
	require.NoError(t, err)

	updated, err := c.UpdatePost(context.Background(), "p2", PostInput{Title: "Renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)

	st := c.State()
	require.Len(t, st.Posts, 2)
	require.Equal(t, "First", st.Posts[0].Title)
	require.Equal(t, "Renamed", st.Posts[1].Title)
	require.NotNil(t, st.CurrentPost)
	require.Equal(t, "Renamed", st.CurrentPost.Title)
}

func TestDeletePost_Filters(t *testing.T) {
	api := &fakeAPI{posts: []post.Post{
		{ID: "p1", Title: "First"},
		{ID: "p2", Title: "Second"},
	}}
	c := newTestClient(t, api)

	_, err := c.FetchPosts(context.Background(), "", "")
	require.NoError(t, err)
	_, err = c.FetchPost(context.Background(), "p1")
	require.NoError(t, err)

	require.NoError(t, c.DeletePost(context.Background(), "p1"))

	st := c.State()
	require.Len(t, st.Posts, 1)
	require.Equal(t, "p2", st.Posts[0].ID)
	require.Nil(t, st.CurrentPost)
}

func TestFetchPost_NotFound(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api)

	_, err := c.FetchPost(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, "Post not found", err.Error())
	require.Equal(t, "Post not found", c.State().Err)
}
