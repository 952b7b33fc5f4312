package auth

import (
	"testing"
	"time"

	"qr-table-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong-pass", hash))
	assert.False(t, CheckPassword("s3cret-pass", "not-a-hash"))
}

func testSession() Session {
	return Session{
		UserID:       "u-1",
		Username:     "budi",
		FullName:     "Budi Santoso",
		Role:         models.RoleWaiter,
		RestaurantID: "r-1",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Issue(testSession())
	require.NoError(t, err)

	got, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testSession(), *got)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", -time.Minute)

	token, err := tm.Issue(testSession())
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(testSession())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestTokenTampered(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Issue(testSession())
	require.NoError(t, err)

	_, err = tm.Verify(token + "x")
	assert.Error(t, err)

	_, err = tm.Verify("not.a.token")
	assert.Error(t, err)
}

func TestTokenIncompleteClaims(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Issue(Session{Username: "ghost"})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestTokenUnknownRoleRejected(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	s := testSession()
	s.Role = models.Role("chef")
	token, err := tm.Issue(s)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}
