package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-123456"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, time.Hour)

	token, err := m.GenerateCustomerToken("u1", "ann@example.com")
	require.NoError(t, err)
	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.SubjectID())
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, TokenTypeCustomer, claims.Type)

	token, err = m.GenerateAdminToken("a1", "root", "super_admin")
	require.NoError(t, err)
	claims, err = m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.SubjectID())
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "super_admin", claims.Role)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, time.Hour).(*tokenManager)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateCustomerToken("u1", "ann@example.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestTokenManager_Invalid(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, time.Hour)
	other := NewTokenManager("another-secret-that-is-long-enough-99", time.Hour, time.Hour)

	token, err := other.GenerateCustomerToken("u1", "ann@example.com")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)

	_, err = m.ValidateToken("not-a-jwt")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestTokenManager_MismatchedType(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, time.Hour).(*tokenManager)

	token, err := m.sign(Claims{
		IsAdmin:          true,
		Type:             TokenTypeCustomer,
		RegisteredClaims: m.registered("u1", time.Hour, "api-customer"),
	})
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Equal(t, ErrWrongTokenType, err)
}
