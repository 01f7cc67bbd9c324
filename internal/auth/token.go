package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenFormatOpaque = "opaque"
	TokenFormatJWT    = "jwt"
)

// TokenIssuer produces bearer tokens for new sessions. Tokens are compared
// for equality only; the session table decides whether one is live.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// OpaqueIssuer returns 256 random bits, hex encoded.
type OpaqueIssuer struct{}

func (OpaqueIssuer) Issue(string) (string, error) {
	return randomHex(32)
}

// JWTIssuer signs an HS256 token carrying the username and a 128-bit random
// id. It has no exp claim: session lifetime is governed by the table.
type JWTIssuer struct {
	key []byte
}

// NewJWTIssuer uses secret as the signing key, or a random key when secret is
// empty.
func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret != "" {
		return &JWTIssuer{key: []byte(secret)}, nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate jwt key: %w", err)
	}
	return &JWTIssuer{key: b}, nil
}

func (i *JWTIssuer) Issue(username string) (string, error) {
	jti, err := randomHex(16)
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"sub": username,
		"jti": jti,
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

// Subject parses a token issued by i and returns its username.
func (i *JWTIssuer) Subject(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.key, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

// NewTokenIssuer picks an issuer by format name.
func NewTokenIssuer(format, secret string) (TokenIssuer, error) {
	switch format {
	case "", TokenFormatOpaque:
		return OpaqueIssuer{}, nil
	case TokenFormatJWT:
		return NewJWTIssuer(secret)
	default:
		return nil, fmt.Errorf("unknown token format %q", format)
	}
}
