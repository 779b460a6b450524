package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/patrimonio/tracker-backend/internal/domain"
)

// bcryptCost matches the work factor the original deployment used.
const bcryptCost = 10

// TokenIssuer mints a bearer token for a user id.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// RegisterInput represents the input for registering a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Result is a successful registration or login: the account plus a fresh
// token the client stores and replays as Authorization: Bearer.
type Result struct {
	User  *domain.User
	Token string
}

// Service handles user registration and login.
type Service struct {
	UserRepo domain.UserRepository
	Tokens   TokenIssuer
}

// NewService creates a new auth Service instance.
func NewService(userRepo domain.UserRepository, tokens TokenIssuer) *Service {
	return &Service{UserRepo: userRepo, Tokens: tokens}
}

// Register creates a new account and logs it in.
// Returns domain.ErrEmailTaken when the email is already registered.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Result, error) {
	if strings.TrimSpace(input.Password) == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        domain.NormalizeEmail(input.Email),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	// The unique constraint on email is the real guard; the repository
	// maps its violation to ErrEmailTaken.
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &Result{User: user, Token: token}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password both come back as domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.UserRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &Result{User: user, Token: token}, nil
}
