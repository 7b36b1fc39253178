package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func userColumns() []string {
	return []string{"id", "email", "password_hash", "role", "created_at", "updated_at"}
}

func TestUserCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logrus.New())

	now := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "a@x.com", "hashed", "user").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("id-1", "a@x.com", "hashed", "user", now, now))

	user, err := repo.Create("a@x.com", "hashed")
	require.NoError(t, err)
	assert.Equal(t, "id-1", user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logrus.New())

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "a@x.com", "hashed", "user").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := repo.Create("a@x.com", "hashed")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logrus.New())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("missing@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail("missing@x.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logrus.New())

	mock.ExpectExec("DELETE FROM users").
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete("id-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("id-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.Delete("id-2")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserUpdateRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logrus.New())

	now := time.Now()
	mock.ExpectQuery("UPDATE users SET role").
		WithArgs("admin", "id-1").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("id-1", "a@x.com", "hashed", "admin", now, now))

	user, err := repo.UpdateRole("id-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	mock.ExpectQuery("UPDATE users SET role").
		WithArgs("admin", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.UpdateRole("missing", models.RoleAdmin)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
