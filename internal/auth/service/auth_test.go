package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/medisort/medisort-server/internal/auth/jwt"
	"github.com/medisort/medisort-server/internal/auth/repository"
	"github.com/medisort/medisort-server/internal/auth/service"
	"github.com/medisort/medisort-server/pkg/config"
	"github.com/medisort/medisort-server/pkg/errors"
	"github.com/medisort/medisort-server/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsers struct {
	byName map[string]*repository.User
	byID   map[int64]*repository.User
	nextID int64
}

func newStubUsers() *stubUsers {
	return &stubUsers{
		byName: make(map[string]*repository.User),
		byID:   make(map[int64]*repository.User),
		nextID: 0,
	}
}

func (s *stubUsers) Create(ctx context.Context, u *repository.User) error {
	if _, exists := s.byName[u.Username]; exists {
		return errors.Conflict("username already taken")
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now().UTC()
	s.byName[u.Username] = u
	s.byID[u.ID] = u
	return nil
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*repository.User, error) {
	if u, ok := s.byName[username]; ok {
		return u, nil
	}
	return nil, errors.NotFound("user")
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, errors.NotFound("user")
}

func newAuthService(users *stubUsers) *service.AuthService {
	tokens := jwt.NewManager(config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
		Issuer:       "medisort-test",
	})
	return service.NewAuthService(users, tokens, logger.New("test", "test"))
}

func TestAuthService_Register(t *testing.T) {
	users := newStubUsers()
	svc := newAuthService(users)

	user, err := svc.Register(context.Background(), service.RegisterRequest{
		Username: "alice",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	// The stored hash verifies against the original password
	stored := users.byName["alice"]
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse")))
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	users := newStubUsers()
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), service.RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), service.RegisterRequest{Username: "alice", Password: "other-password"})
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestAuthService_Login(t *testing.T) {
	users := newStubUsers()
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), service.RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), service.LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	users := newStubUsers()
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), service.RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	// Unknown user and wrong password surface the same error
	_, err = svc.Login(context.Background(), service.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), service.LoginRequest{Username: "alice", Password: "wrong"})
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

func TestAuthService_CurrentUser(t *testing.T) {
	users := newStubUsers()
	svc := newAuthService(users)

	created, err := svc.Register(context.Background(), service.RegisterRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	user, err := svc.CurrentUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.CurrentUser(context.Background(), 9999)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
