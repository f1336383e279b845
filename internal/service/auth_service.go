package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/farellandr/eventhub/internal/apperrors"
	"github.com/farellandr/eventhub/internal/auth"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/farellandr/eventhub/internal/monitoring"
	"github.com/farellandr/eventhub/internal/repository"
)

type AuthService struct {
	users  *repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users *repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("all fields are required: %w", apperrors.ErrValidation)
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("username or email already exists: %w", apperrors.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a session token. With adminOnly set,
// accounts without the admin role are reported as not found.
func (s *AuthService) Login(ctx context.Context, email, password string, adminOnly bool) (*models.User, string, error) {
	kind := "user"
	var role models.Role
	if adminOnly {
		kind, role = "admin", models.RoleAdmin
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", apperrors.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email, role)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			monitoring.TrackLogin(kind, "not_found")
		}
		return nil, "", err
	}

	ok, err := auth.CheckPassword(password, user.Password)
	if err != nil {
		return nil, "", fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		monitoring.TrackLogin(kind, "bad_password")
		return nil, "", fmt.Errorf("invalid password: %w", apperrors.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	monitoring.TrackLogin(kind, "ok")
	return user, token, nil
}

// Authenticate resolves a session token to the stored user record.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, apperrors.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("session user no longer exists: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}
