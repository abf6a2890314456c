package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withClock(t *testing.T, now time.Time) *time.Time {
	t.Helper()
	clock := now
	orig := timeNow
	timeNow = func() time.Time { return clock }
	t.Cleanup(func() { timeNow = orig })
	return &clock
}

func TestGenerateAndParse_Success(t *testing.T) {
	secret := []byte("super-secret")
	issued := time.Unix(1_700_000_000, 0)
	withClock(t, issued)

	tok, err := GenerateToken("user-123", true, secret, time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.True(t, claims.IssuedAt.Time.Equal(issued))
	assert.True(t, claims.ExpiresAt.Time.Equal(issued.Add(time.Hour)))
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("secret")
	clock := withClock(t, time.Unix(1_700_000_000, 0))

	tok, err := GenerateToken("u1", false, secret, time.Hour)
	require.NoError(t, err)

	*clock = clock.Add(59 * time.Minute)
	_, err = ParseToken(tok, secret)
	require.NoError(t, err)

	*clock = clock.Add(2 * time.Minute)
	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("u2", false, []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.False(t, errors.Is(err, common.ErrTokenExpired))
}

func TestParseToken_Malformed(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b.c", "x.y"} {
		_, err := ParseToken(tok, []byte("k"))
		assert.ErrorIs(t, err, common.ErrInvalidToken, "token %q", tok)
	}
}

func TestParseToken_TamperedPayload(t *testing.T) {
	secret := []byte("k")
	tok, err := GenerateToken("u3", false, secret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"isAdmin":false`, `"isAdmin":true`, 1)
	require.NotEqual(t, string(payload), forged)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	_, err = ParseToken(strings.Join(parts, "."), secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_AlgorithmMismatch(t *testing.T) {
	secret := []byte("k")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u4",
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(hs512, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(none, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_MissingExpiryOrUser(t *testing.T) {
	secret := []byte("k")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u5"}).SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(noExp, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	noUser, err := GenerateToken("", false, secret, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(noUser, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
