package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blogsystem/blog-api/internal/post"
)

var (
	ErrNotFound = errors.New("post not found")
)

// Filter narrows a listing: Search matches case-insensitively against
// title or content, Author restricts to posts owned by that account.
// Both conditions are ANDed when present.
type Filter struct {
	Search string
	Author string
}

// Repository defines persistence operations for posts
type Repository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	Get(ctx context.Context, id string) (*post.Post, error)
	List(ctx context.Context, f Filter) ([]*post.Post, error)
	Update(ctx context.Context, p *post.Post) error
	Delete(ctx context.Context, id string) error
}

// MemoryRepo is a simple in-memory repository used for unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*post.Post
	seq   map[string]int
	next  int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*post.Post), seq: make(map[string]int)}
}

func (m *MemoryRepo) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = "post_" + time.Now().Format("20060102T150405.000000000")
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.next++
	m.store[p.ID] = &cp
	m.seq[p.ID] = m.next
	return p, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context, f Filter) ([]*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	search := strings.ToLower(f.Search)
	out := make([]*post.Post, 0, len(m.store))
	for _, p := range m.store {
		if f.Author != "" && p.AuthorID != f.Author {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	// newest-created first; insertion order breaks ties for sub-millisecond creations
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return m.seq[out[i].ID] > m.seq[out[j].ID]
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, p *post.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.seq, id)
	return nil
}
