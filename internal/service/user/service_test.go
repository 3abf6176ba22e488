package user

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
)

// memoryRepo is a lightweight in-memory user repository for tests.
type memoryRepo struct {
	byEmail map[string]domain.User
	getErr  error
	creates int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]domain.User)}
}

func (r *memoryRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	r.creates++
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := u
	clone.ID = "user-" + u.Email
	r.byEmail[clone.Email] = clone
	return &clone, nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if u, ok := r.byEmail[email]; ok {
		clone := u
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}

// racingRepo reports no user on lookup but a duplicate on insert.
type racingRepo struct {
	memoryRepo
}

func (r *racingRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (r *racingRepo) Create(_ context.Context, _ domain.User) (*domain.User, error) {
	return nil, domain.ErrAlreadyExists
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, bcrypt.MinCost)
	ctx := context.Background()

	created, err := svc.Register(ctx, Credentials{Email: " Shopper@Example.com ", Password: "s3cret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "shopper@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.PasswordHash == "s3cret" || bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")) != nil {
		t.Fatalf("expected a bcrypt hash of the password")
	}

	got, err := svc.Login(ctx, Credentials{Email: "shopper@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != created.ID || got.Email != created.Email {
		t.Fatalf("login returned %+v, want id=%s email=%s", got, created.ID, created.Email)
	}
}

func TestRegister_DuplicateEmailConflictsWithoutInsert(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "a@example.com", Password: "x"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, Credentials{Email: "A@example.com", Password: "y"})
	if !errors.Is(err, ErrEmailTaken) || domain.KindOf(err) != domain.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.creates != 1 || len(repo.byEmail) != 1 {
		t.Fatalf("expected a single stored user, creates=%d users=%d", repo.creates, len(repo.byEmail))
	}
}

func TestRegister_UniqueIndexRaceIsConflict(t *testing.T) {
	svc := New(&racingRepo{}, bcrypt.MinCost)
	_, err := svc.Register(context.Background(), Credentials{Email: "a@example.com", Password: "x"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := New(newMemoryRepo(), bcrypt.MinCost)
	if _, err := svc.Register(context.Background(), Credentials{Password: "x"}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), Credentials{Email: "a@example.com"}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for missing password, got %v", err)
	}
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, bcrypt.MinCost)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "user@example.com", Password: "right"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, Credentials{Email: "user@example.com", Password: "wrong"})
	_, unknownEmail := svc.Login(ctx, Credentials{Email: "missing@example.com", Password: "right"})

	for _, err := range []error{wrongPassword, unknownEmail} {
		var de *domain.Error
		if !errors.As(err, &de) || de.Kind != domain.KindInvalidCredentials {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
		if de.Message != "Invalid credentials." {
			t.Fatalf("unexpected message %q", de.Message)
		}
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestLogin_RepoFailureIsInternal(t *testing.T) {
	repo := newMemoryRepo()
	repo.getErr = errors.New("connection reset")
	svc := New(repo, bcrypt.MinCost)
	_, err := svc.Login(context.Background(), Credentials{Email: "a@example.com", Password: "x"})
	if domain.KindOf(err) != domain.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNew_ClampsCost(t *testing.T) {
	if svc := New(newMemoryRepo(), 99); svc.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", svc.cost)
	}
}
