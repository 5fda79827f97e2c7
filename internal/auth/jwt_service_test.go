package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-with-32-characters!!"

func newTestJWTService(t *testing.T, expiresIn time.Duration) *JWTService {
	svc, err := NewJWTService(testSecret, expiresIn)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_Validation(t *testing.T) {
	_, err := NewJWTService("too-short", time.Hour)
	assert.Error(t, err)

	_, err = NewJWTService(testSecret, 0)
	assert.Error(t, err)

	svc, err := NewJWTService(testSecret, 120*time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 120*time.Hour, svc.ExpiresIn())
}

func TestGenerateAndExtract(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	token, expiry, err := svc.GenerateToken(42, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, expiry.Unix(), claims.Exp)
}

func TestExtractClaims_RoleDefaultsToUser(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	token, _, err := svc.GenerateToken(7, "")
	require.NoError(t, err)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestParseToken_Tampered(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	token, _, err := svc.GenerateToken(1, "user")
	require.NoError(t, err)

	_, err = svc.ParseToken(token + "x")
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)
	other, err := NewJWTService("another-secret-key-with-32-chars!!!!", time.Hour)
	require.NoError(t, err)

	token, _, err := svc.GenerateToken(1, "user")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	svc := newTestJWTService(t, time.Millisecond)

	token, _, err := svc.GenerateToken(1, "user")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	svc := newTestJWTService(t, time.Hour)

	_, err := svc.ParseToken("not.a.token")
	assert.Error(t, err)
}
