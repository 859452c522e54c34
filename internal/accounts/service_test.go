package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/blogsystem/blog-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	byEmail map[string]*models.Account
	byID    map[string]*models.Account
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]*models.Account{}, byID: map[string]*models.Account{}}
}

func (f *fakeRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	now := time.Now().UTC()
	a.ID = "acc-" + a.Email
	a.CreatedAt = now
	a.UpdatedAt = now
	f.byEmail[a.Email] = a
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return f.byID[id], nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return f.byEmail[email], nil
}

func (f *fakeRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Account, error) {
	out := map[string]*models.Account{}
	for _, id := range ids {
		if a, ok := f.byID[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	a, err := svc.Register(ctx, "Alice", "Alice@Example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if a.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", a.Email)
	}
	if a.Password == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "dup@example.com", "pw1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(ctx, "B", "DUP@example.com", "pw2")
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Bob", "bob@example.com", "correct-horse"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	a, err := svc.Authenticate(ctx, "bob@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if a.Name != "Bob" {
		t.Fatalf("unexpected account: %+v", a)
	}

	if _, err := svc.Authenticate(ctx, "bob@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "x"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
