package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blogsystem/blog-api/internal/models"
	"github.com/blogsystem/blog-api/internal/post/repository"
	"github.com/blogsystem/blog-api/internal/post/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"context"
)

type stubAccounts struct{}

func (stubAccounts) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error) {
	out := map[string]*models.Account{}
	for _, id := range ids {
		out[id] = &models.Account{ID: id, Name: "User " + id, Email: id + "@example.com"}
	}
	return out, nil
}

// testAuth stands in for the JWT middleware: the X-Test-User header becomes
// the authenticated subject, absence yields 401.
func testAuth(c *gin.Context) {
	user := c.GetHeader("X-Test-User")
	if user == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing Authorization header"})
		return
	}
	c.Set("claims", map[string]interface{}{"sub": user})
	c.Next()
}

func newTestRouter() *gin.Engine {
	g := gin.New()
	svc := service.New(repository.NewMemoryRepo(), stubAccounts{})
	NewHandler(svc, false).Register(g, testAuth)
	return g
}

func doJSON(t *testing.T, g *gin.Engine, method, path, body, user string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func createPost(t *testing.T, g *gin.Engine, user, body string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, g, http.MethodPost, "/api/posts", body, user)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Post map[string]interface{} `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Post
}

func TestCreatePost_ExcerptAndAuthor(t *testing.T) {
	g := newTestRouter()
	p := createPost(t, g, "acc-a", `{"title":"Hi There","content":"<p>Hello world</p>"}`)

	require.Equal(t, "Hello world...", p["excerpt"])
	require.Equal(t, "published", p["status"])
	author, ok := p["author"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "acc-a", author["id"])
}

func TestCreatePost_IgnoresSuppliedAuthor(t *testing.T) {
	g := newTestRouter()
	p := createPost(t, g, "acc-a", `{"title":"Spoofed","content":"body","author":"acc-evil","authorId":"acc-evil"}`)
	require.Equal(t, "acc-a", p["authorId"])
}

func TestCreatePost_EmptyTitleRejected(t *testing.T) {
	g := newTestRouter()
	w := doJSON(t, g, http.MethodPost, "/api/posts", `{"title":"","content":"body"}`, "acc-a")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Title and content are required")

	// nothing was stored
	lw := doJSON(t, g, http.MethodGet, "/api/posts", "", "")
	require.Equal(t, http.StatusOK, lw.Code)
	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &resp))
	require.Zero(t, resp.Total)
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	g := newTestRouter()
	w := doJSON(t, g, http.MethodPost, "/api/posts", `{"title":"No auth","content":"body"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPost(t *testing.T) {
	g := newTestRouter()
	p := createPost(t, g, "acc-a", `{"title":"Readable","content":"anyone can read"}`)
	id := p["id"].(string)

	// no auth needed to read
	w := doJSON(t, g, http.MethodGet, "/api/posts/"+id, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "anyone can read")

	w404 := doJSON(t, g, http.MethodGet, "/api/posts/missing", "", "")
	require.Equal(t, http.StatusNotFound, w404.Code)
	require.Contains(t, w404.Body.String(), "Post not found")
}

func TestListPosts_SearchFilter(t *testing.T) {
	g := newTestRouter()
	createPost(t, g, "acc-a", `{"title":"Go patterns","content":"interfaces"}`)
	createPost(t, g, "acc-b", `{"title":"Dinner","content":"go-to pasta recipe"}`)
	createPost(t, g, "acc-a", `{"title":"Gardening","content":"tomatoes"}`)

	w := doJSON(t, g, http.MethodGet, "/api/posts?search=go", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Posts []map[string]interface{} `json:"posts"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Total)
	require.Len(t, resp.Posts, 2)

	// author filter ANDs with search
	w2 := doJSON(t, g, http.MethodGet, "/api/posts?search=go&author=acc-a", "", "")
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	require.Equal(t, "Go patterns", resp.Posts[0]["title"])
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	g := newTestRouter()
	p := createPost(t, g, "acc-a", `{"title":"Mine","content":"original"}`)
	id := p["id"].(string)

	// another account gets 403 and the post is unchanged
	w := doJSON(t, g, http.MethodPut, "/api/posts/"+id, `{"content":"hijacked"}`, "acc-b")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Not authorized to update this post")

	gw := doJSON(t, g, http.MethodGet, "/api/posts/"+id, "", "")
	require.Contains(t, gw.Body.String(), "original")

	// the owner succeeds, untouched fields survive
	w2 := doJSON(t, g, http.MethodPut, "/api/posts/"+id, `{"content":"revised"}`, "acc-a")
	require.Equal(t, http.StatusOK, w2.Code)
	var resp struct {
		Post map[string]interface{} `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	require.Equal(t, "Mine", resp.Post["title"])
	require.Equal(t, "revised", resp.Post["content"])
}

func TestUpdatePost_NotFound(t *testing.T) {
	g := newTestRouter()
	w := doJSON(t, g, http.MethodPut, "/api/posts/ghost", `{"title":"New name"}`, "acc-a")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePost(t *testing.T) {
	g := newTestRouter()
	p := createPost(t, g, "acc-a", `{"title":"Temporary","content":"bye"}`)
	id := p["id"].(string)

	// non-owner rejected
	w := doJSON(t, g, http.MethodDelete, "/api/posts/"+id, "", "acc-b")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Not authorized to delete this post")

	// owner deletes
	w2 := doJSON(t, g, http.MethodDelete, "/api/posts/"+id, "", "acc-a")
	require.Equal(t, http.StatusOK, w2.Code)
	require.Contains(t, w2.Body.String(), "Post deleted successfully")

	// gone now
	w3 := doJSON(t, g, http.MethodDelete, "/api/posts/"+id, "", "acc-a")
	require.Equal(t, http.StatusNotFound, w3.Code)
}
