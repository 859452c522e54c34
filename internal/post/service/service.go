package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/blogsystem/blog-api/internal/models"
	"github.com/blogsystem/blog-api/internal/post"
	"github.com/blogsystem/blog-api/internal/post/repository"
)

var (
	// ErrNotFound is returned when no post with the given id exists
	ErrNotFound = errors.New("post not found")
	// ErrNotOwner is returned when the caller is not the post's author
	ErrNotOwner = errors.New("caller is not the post author")
)

// ValidationError reports missing or malformed input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// AccountResolver resolves account IDs to display fields for author population
type AccountResolver interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error)
}

// Service enforces the post ownership and lifecycle rules on top of the repository
type Service struct {
	repo     repository.Repository
	accounts AccountResolver
}

func New(repo repository.Repository, accounts AccountResolver) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// CreateInput carries the caller-supplied post fields. Author is never part
// of the input; it is always taken from the authenticated caller.
type CreateInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
	Status  string `json:"status"`
}

// UpdateInput carries a partial update. An empty field means "leave the
// existing value untouched"; a field therefore cannot be cleared via update.
type UpdateInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Excerpt string `json:"excerpt"`
	Status  string `json:"status"`
}

// List returns the full matching set, newest-created first, with resolved
// author fields. searchText matches title or content case-insensitively;
// authorFilter restricts to posts owned by that account.
func (s *Service) List(ctx context.Context, searchText, authorFilter string) ([]*post.Post, error) {
	posts, err := s.repo.List(ctx, repository.Filter{Search: searchText, Author: authorFilter})
	if err != nil {
		return nil, err
	}
	if err := s.resolveAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get returns the post with resolved author fields, or ErrNotFound
func (s *Service) Get(ctx context.Context, id string) (*post.Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.resolveAuthors(ctx, []*post.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Create validates input, forces the author to the caller, derives the
// excerpt when absent, and stores the post.
func (s *Service) Create(ctx context.Context, in CreateInput, callerID string) (*post.Post, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, invalid("Title and content are required")
	}
	if err := validateFields(in.Title, in.Excerpt); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = post.StatusPublished
	}
	if !post.ValidStatus(status) {
		return nil, invalid("Status must be either draft or published")
	}
	excerpt := in.Excerpt
	if excerpt == "" {
		excerpt = post.DeriveExcerpt(in.Content)
	}
	p := &post.Post{
		Title:    in.Title,
		Content:  in.Content,
		Excerpt:  excerpt,
		Status:   status,
		AuthorID: callerID,
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAuthors(ctx, []*post.Post{created}); err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a partial update. Not-found is checked before ownership,
// ownership before any mutation. Only non-empty supplied fields overwrite.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, callerID string) (*post.Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.AuthorID != callerID {
		return nil, ErrNotOwner
	}
	if in.Status != "" && !post.ValidStatus(in.Status) {
		return nil, invalid("Status must be either draft or published")
	}
	title := p.Title
	if in.Title != "" {
		title = in.Title
	}
	excerpt := p.Excerpt
	if in.Excerpt != "" {
		excerpt = in.Excerpt
	}
	if err := validateFields(title, excerpt); err != nil {
		return nil, err
	}
	p.Title = title
	p.Excerpt = excerpt
	if in.Content != "" {
		p.Content = in.Content
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.resolveAuthors(ctx, []*post.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the post permanently. Same not-found / ownership ordering as Update.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if p.AuthorID != callerID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func validateFields(title, excerpt string) error {
	if n := len([]rune(title)); n < 3 || n > 200 {
		return invalid("Title must be between 3 and 200 characters")
	}
	if len([]rune(excerpt)) > 300 {
		return invalid("Excerpt must be at most 300 characters")
	}
	return nil
}

// resolveAuthors attaches account display fields to each post in place
func (s *Service) resolveAuthors(ctx context.Context, posts []*post.Post) error {
	if len(posts) == 0 {
		return nil
	}
	seen := map[string]bool{}
	ids := []string{}
	for _, p := range posts {
		if p.AuthorID != "" && !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	accs, err := s.accounts.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		if a, ok := accs[p.AuthorID]; ok {
			p.Author = &post.Author{ID: a.ID, Name: a.Name, Email: a.Email}
		}
	}
	return nil
}
