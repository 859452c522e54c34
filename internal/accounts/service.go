package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/blogsystem/blog-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken is returned when registering with an email that already has an account
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email/password verification fails
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service encapsulates account business logic: registration and credential checks
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Register creates a new account with a bcrypt-hashed password.
// Email comparison is case-insensitive (stored lowercased).
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a := &models.Account{
		Name:     name,
		Email:    email,
		Password: string(hash),
	}
	return s.repo.Create(ctx, a)
}

// Authenticate verifies email/password and returns the account on success
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByIDs resolves a batch of account IDs, used to attach author
// display fields on post listings.
func (s *Service) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error) {
	return s.repo.GetByIDs(ctx, ids)
}
