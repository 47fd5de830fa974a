package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aybserve/clickenrent-backend-sub004/internal/authz"
	"github.com/aybserve/clickenrent-backend-sub004/internal/config"
	"github.com/aybserve/clickenrent-backend-sub004/internal/models"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:           "access-secret",
		RefreshSecret:          "refresh-secret",
		AccessTTLMinutes:       15,
		RefreshTTLHours:        720,
		CodeLength:             6,
		VerificationTTLMinutes: 15,
		ResetTTLMinutes:        30,
		MaxAttempts:            3,
		UsernameRetryBound:     10,
	}
}

func testAccount(repo *fakeAccountRepo) *models.Account {
	hash := "$2a$10$stub"
	return repo.add(&models.Account{
		PublicID:        "pub-1",
		Username:        "alice",
		Email:           "alice@example.com",
		PasswordHash:    &hash,
		IsEmailVerified: true,
		IsActive:        true,
		Roles:           []string{authz.RoleUser},
		CompanyIDs:      []int64{7},
	})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	account := testAccount(repo)
	svc := NewTokenService(testAuthConfig(), repo)

	token, err := svc.IssueAccess(account)
	require.NoError(t, err)

	claims, err := svc.ValidateAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{authz.RoleUser}, claims.Roles)
	assert.Equal(t, []int64{7}, claims.CompanyIDs)
}

func TestTokenService_ValidateExpired(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	account := testAccount(repo)
	svc := NewTokenService(testAuthConfig(), repo)

	issuedAt := time.Now()
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.IssueAccess(account)
	require.NoError(t, err)

	// после истечения срока — ErrTokenExpired, не общий ErrTokenInvalid
	svc.now = func() time.Time { return issuedAt.Add(16 * time.Minute) }
	_, err = svc.ValidateAccess(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_ValidateWrongSecret(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	account := testAccount(repo)
	svc := NewTokenService(testAuthConfig(), repo)

	other := testAuthConfig()
	other.AccessSecret = "different-secret"
	otherSvc := NewTokenService(other, repo)

	token, err := svc.IssueAccess(account)
	require.NoError(t, err)

	_, err = otherSvc.ValidateAccess(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_ValidateMalformed(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testAuthConfig(), newFakeAccountRepo())

	_, err := svc.ValidateAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_AccessSecretDoesNotValidateRefresh(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	account := testAccount(repo)
	svc := NewTokenService(testAuthConfig(), repo)

	refresh, err := svc.IssueRefresh(account)
	require.NoError(t, err)

	// классы токенов подписаны разными секретами
	_, err = svc.ValidateAccess(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RefreshDerivesFreshClaims(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	account := testAccount(repo)
	svc := NewTokenService(testAuthConfig(), repo)

	refresh, err := svc.IssueRefresh(account)
	require.NoError(t, err)

	// роль меняется после выпуска refresh-токена
	account.Roles = []string{authz.RoleUser, authz.RoleAdmin}

	access, err := svc.Refresh(refresh)
	require.NoError(t, err)

	claims, err := svc.ValidateAccess(access)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.RoleUser, authz.RoleAdmin}, claims.Roles,
		"claims must come from current account state, not from the old token")
}

func TestTokenService_RefreshInvalidToken(t *testing.T) {
	t.Parallel()

	svc := NewTokenService(testAuthConfig(), newFakeAccountRepo())

	_, err := svc.Refresh("garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RefreshInactiveAccount(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	account := testAccount(repo)
	svc := NewTokenService(testAuthConfig(), repo)

	refresh, err := svc.IssueRefresh(account)
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(account.ID))

	_, err = svc.Refresh(refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
