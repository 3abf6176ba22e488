package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
	userrepo "storefront/internal/repository/user"
)

const (
	msgEmailTaken         = "User with this email already exists."
	msgInvalidCredentials = "Invalid credentials."
)

var (
	// ErrEmailTaken is returned by Register when the email already exists.
	ErrEmailTaken = domain.NewError(domain.KindConflict, msgEmailTaken, nil)
	// ErrInvalidCredentials is returned by Login for an unknown email and for
	// a wrong password alike.
	ErrInvalidCredentials = domain.NewError(domain.KindInvalidCredentials, msgInvalidCredentials, nil)
)

// Service handles user registration and login. Login issues no token; the
// caller keeps the returned identity.
type Service struct {
	repo userrepo.Repository
	cost int
}

// New creates a Service hashing with the given bcrypt cost.
func New(repo userrepo.Repository, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost}
}

// Credentials is the payload of both register and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user unless the email is already registered.
func (s *Service) Register(ctx context.Context, in Credentials) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, domain.Validation("email required")
	}
	if in.Password == "" {
		return nil, domain.Validation("password required")
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return nil, domain.NewError(domain.KindInternal, "Server error", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, domain.NewError(domain.KindInternal, "Server error", err)
	}

	u, err := s.repo.Create(ctx, domain.User{Email: email, PasswordHash: string(hashed)})
	if err != nil {
		// Lost a race with a concurrent registration; the unique index decided.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, domain.NewError(domain.KindInternal, "Server error", err)
	}
	return u, nil
}

// Login verifies the credentials and returns the stored user.
func (s *Service) Login(ctx context.Context, in Credentials) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.Validation("email and password required")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, domain.NewError(domain.KindInternal, "Server error", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
