package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sisvisitas-api/internal/models"
	appErrors "github.com/noah-isme/sisvisitas-api/pkg/errors"
)

type mockAuthRepo struct {
	user             *models.User
	groups           []string
	lastLoginUpdated bool
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.user == nil || m.user.Username != username {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockAuthRepo) Groups(ctx context.Context, userID string) ([]string, error) {
	return m.groups, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func newAuthFixture(t *testing.T, active bool) (*AuthService, *mockAuthRepo, *recordingAudit) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{
		user:   &models.User{ID: "u-1", Username: "recepcion1", FullName: "Recepción Uno", PasswordHash: string(hash), Active: active},
		groups: []string{models.GroupReception},
	}
	audit := &recordingAudit{}
	svc := NewAuthService(repo, audit, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "sisvisitas",
	})
	return svc, repo, audit
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo, audit := newAuthFixture(t, true)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "recepcion1", Password: "secreto123", IP: "10.1.1.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, []string{models.GroupReception}, res.User.Groups)
	assert.True(t, repo.lastLoginUpdated)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "recepcion1", claims.Username)
	assert.True(t, claims.InGroup(models.GroupReception))
	assert.False(t, claims.InGroup(models.GroupAdmin))

	require.Equal(t, []string{models.AuditActionLogin}, audit.actions())
	assert.Equal(t, "u-1", audit.events[0].EntityID)
	assert.Equal(t, "10.1.1.1", audit.events[0].IP)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	svc, _, audit := newAuthFixture(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "recepcion1", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "recepcion1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Empty(t, audit.actions())
}

func TestAuthServiceLoginInactive(t *testing.T) {
	svc, _, _ := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "recepcion1", Password: "secreto123"})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthServiceValidateTokenRejectsForeignSignature(t *testing.T) {
	svc, _, _ := newAuthFixture(t, true)
	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "recepcion1", Password: "secreto123"})
	require.NoError(t, err)

	other := NewAuthService(&mockAuthRepo{}, &recordingAudit{}, nil, nil, AuthConfig{AccessTokenSecret: "other"})
	_, err = other.ValidateToken(res.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceMe(t *testing.T) {
	svc, _, _ := newAuthFixture(t, true)

	info, err := svc.Me(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Recepción Uno", info.FullName)

	_, err = svc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
