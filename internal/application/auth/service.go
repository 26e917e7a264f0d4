package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizsimlab/venture-sim/internal/application"
	domain "github.com/bizsimlab/venture-sim/internal/domain/users"
)

const (
	bcryptCost = 12
	tokenTTL   = 30 * 24 * time.Hour
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotRegistered  = errors.New("user not registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service implements registration, login and identity lookup. Scenario
// handlers never see credentials; they only receive the resolved user id.
type Service struct {
	Repo   domain.Repository
	Secret []byte
	Clock  application.Clock
}

// Register creates a user and mints a session token.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, string, error) {
	existing, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("looking up email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		ID:           domain.UserID(uuid.New().String()),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.sign(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and mints a session token. An unknown email and
// a wrong password are reported as distinct errors, matching the API surface.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("looking up email: %w", err)
	}
	if user == nil {
		return nil, "", ErrUserNotRegistered
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sign(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the user for an already-resolved id.
func (s *Service) Me(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotRegistered
	}
	return user, nil
}

// TokenTTL is exposed so the HTTP layer can align cookie expiry with it.
func (s *Service) TokenTTL() time.Duration { return tokenTTL }

func (s *Service) sign(id domain.UserID) (string, error) {
	now := s.Clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  string(id),
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
