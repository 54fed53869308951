package core

import (
	"strings"
	"testing"
)

// Requirement: argon2id hashes verify against the original password only
func TestArgon2_HashAndVerify(t *testing.T) {
	// Arrange
	hasher := NewArgon2()

	// Act
	hash, err := hasher.Hash("correct horse battery staple")

	// Assert
	if err != nil {
		t.Fatalf("Hash should succeed; got %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash should be in argon2id PHC format; got %q", hash)
	}

	ok, err := hasher.Verify("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("Verify should succeed; got %v", err)
	}
	if !ok {
		t.Errorf("correct password should verify")
	}

	ok, err = hasher.Verify("wrong password", hash)
	if err != nil {
		t.Fatalf("Verify should succeed; got %v", err)
	}
	if ok {
		t.Errorf("wrong password should not verify")
	}
}

// Requirement: each hash uses a fresh salt
func TestArgon2_SaltsDiffer(t *testing.T) {
	hasher := NewArgon2()

	first, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash should succeed; got %v", err)
	}
	second, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash should succeed; got %v", err)
	}

	if first == second {
		t.Errorf("two hashes of the same password should differ")
	}
}

// Requirement: malformed stored hashes are an error, not a silent mismatch
func TestArgon2_MalformedHash(t *testing.T) {
	hasher := NewArgon2()

	if _, err := hasher.Verify("secret1", "not-a-phc-string"); err == nil {
		t.Errorf("malformed hash should return an error")
	}
}
