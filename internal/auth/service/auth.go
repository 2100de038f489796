package service

import (
	"context"

	"github.com/medisort/medisort-server/internal/auth/jwt"
	"github.com/medisort/medisort-server/internal/auth/repository"
	"github.com/medisort/medisort-server/pkg/errors"
	"github.com/medisort/medisort-server/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence the auth service needs
type UserStore interface {
	Create(ctx context.Context, u *repository.User) error
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
	GetByID(ctx context.Context, id int64) (*repository.User, error)
}

// AuthService handles registration, login, and identity lookup
type AuthService struct {
	users  UserStore
	tokens *jwt.Manager
	logger *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: log.WithComponent("auth-service"),
	}
}

// RegisterRequest carries new account details
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries a fresh access token and its owner
type LoginResponse struct {
	Token string           `json:"token"`
	User  *repository.User `json:"user"`
}

// Register creates a new account. The password is hashed with bcrypt; the
// plain text is never stored or logged.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*repository.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := &repository.User{
		Username:     req.Username,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues an access token. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID, user.Username)
	if err != nil {
		return nil, errors.Internal("failed to issue token")
	}

	s.logger.Info().Str("username", user.Username).Int64("user_id", user.ID).Msg("user logged in")
	return &LoginResponse{Token: token, User: user}, nil
}

// CurrentUser returns the account behind an authenticated request
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*repository.User, error) {
	return s.users.GetByID(ctx, userID)
}
