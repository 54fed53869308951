package core

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of an issued session token.
// There is no refresh concept; re-authentication is required after expiry.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the signed, self-contained representation of a reconciled
// identity. The subject id travels in the registered "sub" claim.
type Claims struct {
	Email         *string `json:"email"`
	PhoneNumber   *string `json:"phoneNumber"`
	EmailVerified bool    `json:"emailVerified"`
	PhoneVerified bool    `json:"phoneVerified"`
	DisplayName   *string `json:"displayName,omitempty"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	GoogleID      *string `json:"googleId,omitempty"`
	FacebookID    *string `json:"facebookId,omitempty"`
	LineID        *string `json:"lineId,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the external subject id the token was issued for.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// TokenIssuer mints and verifies HS256 session tokens.
// Tokens are immutable once issued; there is no revocation list, so
// compromise recovery relies on the short validity window.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue packages the user record into a signed, time-bounded claims bundle.
func (ti *TokenIssuer) Issue(u *User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		DisplayName:   u.DisplayName,
		AvatarURL:     u.AvatarURL,
		GoogleID:      u.GoogleID,
		FacebookID:    u.FacebookID,
		LineID:        u.LineID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
//
// It fails closed: malformed, unsigned, tampered and expired tokens all
// yield ErrInvalidToken without distinguishing why.
func (ti *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
