package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/medisort/medisort-server/internal/auth/repository"
	"github.com/medisort/medisort-server/pkg/database"
	"github.com/medisort/medisort-server/pkg/errors"
	"github.com/medisort/medisort-server/pkg/logger"
	"github.com/medisort/medisort-server/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*repository.UserRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	log := logger.New("test", "test")
	repo := repository.NewUserRepository(database.NewFromSQLx(mockDB.DB, log))
	return repo, mockDB
}

func TestUserRepository_Create(t *testing.T) {
	repo, mockDB := newRepo(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mockDB.Mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "hashed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	u := &repository.User{Username: "alice", PasswordHash: "hashed"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, created, u.CreatedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.Mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	u := &repository.User{Username: "alice", PasswordHash: "hashed"}
	err := repo.Create(context.Background(), u)
	assert.True(t, errors.Is(err, errors.ErrConflict))

	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_GetByUsername(t *testing.T) {
	repo, mockDB := newRepo(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow(7, "alice", "hashed", created)

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice").
		WillReturnRows(rows)

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "hashed", u.PasswordHash)

	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	repo, mockDB := newRepo(t)

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_GetByID(t *testing.T) {
	repo, mockDB := newRepo(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow(7, "alice", "hashed", created)

	mockDB.Mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	u, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	mockDB.ExpectationsWereMet(t)
}
