package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-that-is-long-enough!"

func tokenTestUser() *User {
	return &User{
		ID:            "u1",
		SubjectID:     "sub-1",
		Email:         strPtr("alice@example.com"),
		EmailVerified: true,
		PhoneNumber:   strPtr("+886900000001"),
		PhoneVerified: true,
		DisplayName:   strPtr("Alice"),
		GoogleID:      strPtr("g-1"),
	}
}

// Requirement: issued tokens verify and carry the identity snapshot
func TestTokenIssuer_RoundTrip(t *testing.T) {
	// Arrange
	ti := NewTokenIssuer(testSecret, time.Hour)
	user := tokenTestUser()

	// Act
	token, err := ti.Issue(user)
	if err != nil {
		t.Fatalf("Issue should succeed; got %v", err)
	}
	claims, err := ti.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("Verify should succeed; got %v", err)
	}
	if claims.SubjectID() != "sub-1" {
		t.Errorf("subject id should round-trip; got %q", claims.SubjectID())
	}
	if claims.Email == nil || *claims.Email != "alice@example.com" {
		t.Errorf("email should round-trip")
	}
	if !claims.EmailVerified || !claims.PhoneVerified {
		t.Errorf("verified flags should round-trip")
	}
	if claims.GoogleID == nil || *claims.GoogleID != "g-1" {
		t.Errorf("provider id should round-trip")
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour {
		t.Errorf("expiry should honor the configured ttl")
	}
}

// Requirement: every verification failure collapses into ErrInvalidToken
func TestTokenIssuer_VerifyFailsClosed(t *testing.T) {
	ti := NewTokenIssuer(testSecret, time.Hour)
	valid, err := ti.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue should succeed; got %v", err)
	}

	expiredIssuer := NewTokenIssuer(testSecret, -time.Minute)
	expired, err := expiredIssuer.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue should succeed; got %v", err)
	}

	otherIssuer := NewTokenIssuer("a-completely-different-secret-value!", time.Hour)
	foreign, err := otherIssuer.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue should succeed; got %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(valid, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "not-a-jwt"},
		{name: "tampered signature", token: tampered},
		{name: "expired token", token: expired},
		{name: "wrong secret", token: foreign},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			_, err := ti.Verify(test.token)

			// Assert
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("should fail with ErrInvalidToken; got %v", err)
			}
		})
	}
}

// Requirement: a zero ttl falls back to the default validity window
func TestTokenIssuer_DefaultTTL(t *testing.T) {
	// Arrange
	ti := NewTokenIssuer(testSecret, 0)

	// Act
	token, err := ti.Issue(tokenTestUser())
	if err != nil {
		t.Fatalf("Issue should succeed; got %v", err)
	}
	claims, err := ti.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("Verify should succeed; got %v", err)
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < DefaultTokenTTL-time.Minute || remaining > DefaultTokenTTL {
		t.Errorf("expiry should default to %v; got %v remaining", DefaultTokenTTL, remaining)
	}
}
