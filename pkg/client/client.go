// Package client is a Go SDK for the blog API that mirrors server state
// locally. Every call flips the Loading flag while in flight, then patches
// the local snapshot from the response instead of refetching: created posts
// are prepended, updated posts replaced in place, deleted posts filtered
// out. Failures record the server's message in Err and leave Posts intact.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/blogsystem/blog-api/internal/post"
)

// State is a point-in-time snapshot of the mirrored post state.
type State struct {
	Posts       []post.Post
	CurrentPost *post.Post
	Loading     bool
	Err         string
}

// Client talks to the blog API and maintains a mirrored State.
// Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
	state State
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API at baseURL (e.g. "http://localhost:5000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken updates the bearer token used for mutating calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// State returns a copy of the current mirrored state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Posts = append([]post.Post(nil), c.state.Posts...)
	if c.state.CurrentPost != nil {
		cp := *c.state.CurrentPost
		s.CurrentPost = &cp
	}
	return s
}

type authResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates an account and stores the returned access token for
// subsequent mutating calls.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return err
	}
	c.SetToken(out.AccessToken)
	return nil
}

// Login authenticates and stores the returned access token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return err
	}
	c.SetToken(out.AccessToken)
	return nil
}

// apiError carries the server's message for non-2xx responses.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

// PostInput is the request body for CreatePost and UpdatePost. Empty
// fields are omitted; on update the server keeps the stored value for
// any field left empty.
type PostInput struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Status  string `json:"status,omitempty"`
}

type listResponse struct {
	Posts []post.Post `json:"posts"`
	Total int         `json:"total"`
}

type postResponse struct {
	Message string    `json:"message"`
	Post    post.Post `json:"post"`
}

// FetchPosts loads the post list into State.Posts. Either filter may be
// empty; search matches title or content case-insensitively, author
// restricts to a single account's posts.
func (c *Client) FetchPosts(ctx context.Context, search, author string) ([]post.Post, error) {
	c.begin()
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if author != "" {
		q.Set("author", author)
	}
	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.state.Posts = out.Posts
	c.state.Loading = false
	c.state.Err = ""
	c.mu.Unlock()
	return out.Posts, nil
}

// FetchPost loads a single post into State.CurrentPost.
func (c *Client) FetchPost(ctx context.Context, id string) (*post.Post, error) {
	c.begin()
	var out struct {
		Post post.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil, &out); err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.state.CurrentPost = &out.Post
	c.state.Loading = false
	c.state.Err = ""
	c.mu.Unlock()
	return &out.Post, nil
}

// CreatePost creates a post and prepends it to State.Posts.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*post.Post, error) {
	c.begin()
	var out postResponse
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &out); err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.state.Posts = append([]post.Post{out.Post}, c.state.Posts...)
	c.state.Loading = false
	c.state.Err = ""
	c.mu.Unlock()
	return &out.Post, nil
}

// UpdatePost updates a post and replaces its entry in State.Posts and, if
// it is the current post, State.CurrentPost.
func (c *Client) UpdatePost(ctx context.Context, id string, in PostInput) (*post.Post, error) {
	c.begin()
	var out postResponse
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), in, &out); err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	for i := range c.state.Posts {
		if c.state.Posts[i].ID == out.Post.ID {
			c.state.Posts[i] = out.Post
			break
		}
	}
	if c.state.CurrentPost != nil && c.state.CurrentPost.ID == out.Post.ID {
		cp := out.Post
		c.state.CurrentPost = &cp
	}
	c.state.Loading = false
	c.state.Err = ""
	c.mu.Unlock()
	return &out.Post, nil
}

// DeletePost deletes a post and removes it from State.Posts.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	c.begin()
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), nil, nil); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	kept := c.state.Posts[:0]
	for _, p := range c.state.Posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.state.Posts = kept
	if c.state.CurrentPost != nil && c.state.CurrentPost.ID == id {
		c.state.CurrentPost = nil
	}
	c.state.Loading = false
	c.state.Err = ""
	c.mu.Unlock()
	return nil
}

func (c *Client) begin() {
	c.mu.Lock()
	c.state.Loading = true
	c.state.Err = ""
	c.mu.Unlock()
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	c.state.Loading = false
	c.state.Err = err.Error()
	c.mu.Unlock()
}

// do performs one HTTP round trip. Non-2xx responses are returned as an
// *apiError carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return &apiError{Status: resp.StatusCode, Message: e.Message}
		}
		return &apiError{Status: resp.StatusCode, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
