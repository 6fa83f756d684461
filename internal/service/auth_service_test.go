package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
)

type mockAuthRepo struct {
	userByEmail      *models.User
	findByEmailErr   error
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.userByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.userByEmail == nil || m.userByEmail.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.userByEmail, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newAuthFixture(t *testing.T, active bool) (*AuthService, *mockAuthRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{userByEmail: &models.User{
		ID:           "u1",
		Email:        "student@umass.edu",
		PasswordHash: string(hash),
		FullName:     "Jordan Lee",
		Role:         models.RoleStudent,
		Active:       active,
	}}
	svc := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "l2l"})
	return svc, repo
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, repo := newAuthFixture(t, true)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@umass.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@umass.edu", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, _ := newAuthFixture(t, false)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@umass.edu", Password: "secret123"})
	assert.True(t, errors.Is(err, appErrors.ErrInactiveAccount))
}

func TestLoginValidation(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, repo := newAuthFixture(t, true)
	repo.userByEmail = nil
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@umass.edu", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestValidateTokenExpired(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	past := time.Now().Add(-3 * time.Hour)
	svc.now = func() time.Time { return past }
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@umass.edu", Password: "secret123"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestMe(t *testing.T) {
	svc, _ := newAuthFixture(t, true)
	info, err := svc.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee", info.FullName)

	_, err = svc.Me(context.Background(), "nobody")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRefreshReloadsUser(t *testing.T) {
	svc, repo := newAuthFixture(t, true)
	base := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	repo.userByEmail.Role = models.RoleMentor
	resp, err := svc.Refresh(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, base, resp.IssuedAt)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMentor, claims.Role)
	assert.False(t, repo.lastLoginUpdated)
}

func TestRefreshRejectsGoneOrInactiveUsers(t *testing.T) {
	svc, repo := newAuthFixture(t, true)
	_, err := svc.Refresh(context.Background(), "someone-else")
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	repo.userByEmail.Active = false
	_, err = svc.Refresh(context.Background(), "u1")
	assert.True(t, errors.Is(err, appErrors.ErrInactiveAccount))
}
