package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "recipebox/internal/errors"
)

func newTestJWTService(t *testing.T, secret string) *JWTService {
	t.Helper()
	svc, err := NewJWTService(secret, "recipebox", time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	svc, err := NewJWTService("", "recipebox", time.Hour)
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	svc, err := NewJWTService("secret", "recipebox", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenExpiry, svc.TTL())
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestJWTService(t, "test-secret")

	token, err := svc.Issue("cook@example.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", claims.Email)
	assert.Equal(t, "cook@example.com", claims.Subject)
	assert.Equal(t, "recipebox", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_RejectsTamperedSignature(t *testing.T) {
	svc := newTestJWTService(t, "test-secret")
	other := newTestJWTService(t, "other-secret")

	token, err := svc.Issue("cook@example.com")
	require.NoError(t, err)
	forged, err := other.Issue("cook@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + parts[1] + "." + forgedParts[2]

	claims, err := svc.Verify(tampered)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
	assert.Nil(t, claims)
}

func TestJWTService_RejectsTamperedPayload(t *testing.T) {
	svc := newTestJWTService(t, "test-secret")

	victim, err := svc.Issue("victim@example.com")
	require.NoError(t, err)
	attacker, err := svc.Issue("attacker@example.com")
	require.NoError(t, err)

	victimParts := strings.Split(victim, ".")
	attackerParts := strings.Split(attacker, ".")
	tampered := attackerParts[0] + "." + victimParts[1] + "." + attackerParts[2]

	_, err = svc.Verify(tampered)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := newTestJWTService(t, "test-secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue("cook@example.com")
	require.NoError(t, err)

	svc.now = time.Now
	claims, err := svc.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
	assert.Nil(t, claims)
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService(t, "test-secret")

	claims := &Claims{
		Email: "cook@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "cook@example.com",
			Issuer:    "recipebox",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc := newTestJWTService(t, "test-secret")
	foreign, err := NewJWTService("test-secret", "someone-else", time.Hour)
	require.NoError(t, err)

	token, err := foreign.Issue("cook@example.com")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestJWTService(t, "test-secret")

	_, err := svc.Verify("clearly-not-a-jwt-token-format")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
