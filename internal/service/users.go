package service

import (
	"context"
	"errors"
	"net/mail"

	"github.com/rs/zerolog"

	"github.com/vyhuholl/order-management-rest-api/internal/auth"
	"github.com/vyhuholl/order-management-rest-api/internal/repo"
	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

type UsersStore interface {
	Create(ctx context.Context, email, hashedPassword string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type Tokens interface {
	New(userID int64) (string, error)
	Parse(token string) (auth.Claims, error)
}

type UsersService struct {
	Store  UsersStore
	Hasher PasswordHasher
	Tokens Tokens
	Log    zerolog.Logger
}

func (s *UsersService) Register(ctx context.Context, email, password string) (models.User, error) {
	if err := validateEmail(email); err != nil {
		return models.User{}, err
	}
	if password == "" {
		return models.User{}, validationError("password is required")
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	u, err := s.Store.Create(ctx, email, hash)
	if errors.Is(err, repo.ErrEmailExists) {
		return models.User{}, ErrConflict
	}
	if err != nil {
		return models.User{}, dependencyError("create user", err)
	}
	return u, nil
}

// Login checks the credentials and issues a bearer token for the user.
func (s *UsersService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Store.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", dependencyError("get user", err)
	}

	ok, err := s.Hasher.Verify(password, u.HashedPassword)
	if err != nil {
		s.Log.Error().Err(err).Int64("user_id", u.ID).Msg("stored password hash unreadable")
		return "", ErrInvalidCredentials
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return s.Tokens.New(u.ID)
}

// Authenticate resolves a bearer token to an existing user.
func (s *UsersService) Authenticate(ctx context.Context, token string) (models.User, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return models.User{}, ErrInvalidToken
	}

	u, err := s.Store.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, dependencyError("get user", err)
	}
	return u, nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationError("value is not a valid email address")
	}
	return nil
}
