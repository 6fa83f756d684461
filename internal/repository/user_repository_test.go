package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
)

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "role", "active", "last_login", "created_at", "updated_at"}).
		AddRow("1", "user@umass.edu", "hash", "User", string(models.RoleMentor), true, now, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, full_name, role, active, last_login, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("user@umass.edu").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "User@UMass.edu")
	require.NoError(t, err)
	assert.Equal(t, "user@umass.edu", user.Email)
	assert.Equal(t, models.RoleMentor, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLastLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(ts, ts, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), "u1", ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{Email: "New@umass.edu", FullName: "New", Role: models.RoleStudent, Active: true}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "new@umass.edu", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	repo := NewMemoryUserRepository()
	err := repo.Create(context.Background(), &models.User{Email: "x@umass.edu", Role: "TEACHER"})
	assert.ErrorContains(t, err, "unknown role")
}

func TestMemoryUserRepository(t *testing.T) {
	users, err := DemoUsers("demo-pass")
	require.NoError(t, err)
	repo := NewMemoryUserRepository(users...)
	ctx := context.Background()

	student, err := repo.FindByEmail(ctx, "STUDENT@umass.edu")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("demo-pass")))

	ts := time.Now().UTC()
	require.NoError(t, repo.UpdateLastLogin(ctx, student.ID, ts))
	again, err := repo.FindByID(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, again.LastLogin)
	assert.Equal(t, ts, *again.LastLogin)

	_, err = repo.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, repo.UpdateLastLogin(ctx, "nobody", ts), sql.ErrNoRows)
}
