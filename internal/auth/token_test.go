package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaker(t *testing.T, secret, alg string) *TokenMaker {
	t.Helper()
	m, err := NewTokenMaker(secret, alg, 30*time.Minute)
	require.NoError(t, err)
	return m
}

func TestTokenMaker_RoundTrip(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			m := newMaker(t, "s3cret", alg)

			tok, err := m.New(42)
			require.NoError(t, err)

			c, err := m.Parse(tok)
			require.NoError(t, err)
			assert.Equal(t, int64(42), c.UserID)
			assert.WithinDuration(t, time.Now().Add(30*time.Minute), c.ExpiresAt, 5*time.Second)
		})
	}
}

func TestTokenMaker_Expired(t *testing.T) {
	m := newMaker(t, "s3cret", "HS256")
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	tok, err := m.New(1)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_BadSignature(t *testing.T) {
	tok, err := newMaker(t, "one", "HS256").New(1)
	require.NoError(t, err)

	_, err = newMaker(t, "two", "HS256").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_AlgorithmMismatch(t *testing.T) {
	tok, err := newMaker(t, "same", "HS512").New(1)
	require.NoError(t, err)

	_, err = newMaker(t, "same", "HS256").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_Malformed(t *testing.T) {
	m := newMaker(t, "s3cret", "HS256")
	for _, tok := range []string{"", "invalid.jwt.here", strings.Repeat("a", 40)} {
		_, err := m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestTokenMaker_NonNumericSubject(t *testing.T) {
	m := newMaker(t, "s3cret", "HS256")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMaker_MissingExpiry(t *testing.T) {
	m := newMaker(t, "s3cret", "HS256")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).
		SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenMaker_Rejects(t *testing.T) {
	_, err := NewTokenMaker("s", "RS256", time.Minute)
	assert.Error(t, err)
	_, err = NewTokenMaker("", "HS256", time.Minute)
	assert.Error(t, err)
	_, err = NewTokenMaker("s", "HS256", 0)
	assert.Error(t, err)
}
