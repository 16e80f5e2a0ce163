package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const cookieIssuer = "xbookmarks"

// cookieClaims is the payload of the session cookie
type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieCodec signs session ids into HS256 tokens so that a tampered cookie
// is rejected before the store is consulted.
type CookieCodec struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// NewCookieCodec creates a codec. The secret must be at least 32 bytes.
func NewCookieCodec(secret []byte, ttl time.Duration) (*CookieCodec, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes, got %d", len(secret))
	}
	return &CookieCodec{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Encode returns the signed cookie value for sid, valid for the codec TTL
func (c *CookieCodec) Encode(sid string) (string, error) {
	return c.EncodeUntil(sid, c.now().Add(c.ttl))
}

// EncodeUntil returns the signed cookie value for sid, valid until expiresAt
func (c *CookieCodec) EncodeUntil(sid string, expiresAt time.Time) (string, error) {
	claims := cookieClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cookieIssuer,
			IssuedAt:  jwt.NewNumericDate(c.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies the cookie value and returns the session id
func (c *CookieCodec) Decode(value string) (string, error) {
	claims := &cookieClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}
	if claims.SessionID == "" {
		return "", errors.New("invalid session cookie: missing sid")
	}
	return claims.SessionID, nil
}
