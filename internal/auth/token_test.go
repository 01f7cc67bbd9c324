package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpaqueIssuer(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := OpaqueIssuer{}.Issue("u")
		require.NoError(t, err)
		require.Len(t, tok, 64)
		_, err = hex.DecodeString(tok)
		require.NoError(t, err)

		_, dup := seen[tok]
		require.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestJWTIssuer_SubjectRoundTrip(t *testing.T) {
	issuer, err := NewJWTIssuer("secret")
	require.NoError(t, err)

	a, err := issuer.Issue("alice")
	require.NoError(t, err)
	b, err := issuer.Issue("alice")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	sub, err := issuer.Subject(a)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	other, err := NewJWTIssuer("different")
	require.NoError(t, err)
	_, err = other.Subject(a)
	assert.Error(t, err)
}

func TestNewTokenIssuer(t *testing.T) {
	ti, err := NewTokenIssuer("", "")
	require.NoError(t, err)
	assert.IsType(t, OpaqueIssuer{}, ti)

	ti, err = NewTokenIssuer(TokenFormatJWT, "")
	require.NoError(t, err)
	assert.IsType(t, &JWTIssuer{}, ti)

	_, err = NewTokenIssuer("paseto", "")
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hash, err := hashPassword("s3cret", 4)
	require.NoError(t, err)

	ok, upgrade := checkPassword(hash, "s3cret")
	assert.True(t, ok)
	assert.False(t, upgrade)

	ok, _ = checkPassword(hash, "wrong")
	assert.False(t, ok)

	ok, upgrade = checkPassword("plain", "plain")
	assert.True(t, ok)
	assert.True(t, upgrade)

	ok, _ = checkPassword("plain", "Plain")
	assert.False(t, ok)
}

func TestCheckPassword_PlaintextWithHashPrefix(t *testing.T) {
	ok, upgrade := checkPassword("$2b$hunter2", "$2b$hunter2")
	assert.True(t, ok)
	assert.True(t, upgrade)

	hash, err := hashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.True(t, isBcryptHash(hash))
	assert.False(t, isBcryptHash(hash[:59]))
}
