package core

import (
	"errors"
	"testing"
)

func seedUser(t *testing.T, store *memStore, u *User) *User {
	t.Helper()
	if err := store.CreateUser(u); err != nil {
		t.Fatalf("seeding user should succeed; got %v", err)
	}
	return u
}

// Requirement: binding a provider stores the account id on the record
func TestBindProvider_Success(t *testing.T) {
	// Arrange
	store := newMemStore()
	b := NewBindingManager(store, fakeHasher{})
	user := seedUser(t, store, &User{
		ID: "u1", SubjectID: "sub-1", PasswordHash: strPtr("hashed:secret1"),
	})

	// Act
	updated, err := b.BindProvider(user, ProviderFacebook, "fb-acct-1")

	// Assert
	if err != nil {
		t.Fatalf("bind should succeed; got %v", err)
	}
	if updated.FacebookID == nil || *updated.FacebookID != "fb-acct-1" {
		t.Errorf("facebook account id should be bound")
	}
	stored, err := store.GetUserByID("u1")
	if err != nil {
		t.Fatalf("stored record should exist; got %v", err)
	}
	if stored.FacebookID == nil || *stored.FacebookID != "fb-acct-1" {
		t.Errorf("binding should be persisted")
	}
}

// Requirement: bind input is validated and foreign-owned accounts are refused
func TestBindProvider_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		provider  Provider
		accountID string
		wantErr   error
	}{
		{name: "unknown provider", provider: Provider("github"), accountID: "x", wantErr: ErrInvalidProvider},
		{name: "empty account id", provider: ProviderGoogle, accountID: "", wantErr: ErrAccountIDRequired},
		{name: "account owned by another user", provider: ProviderGoogle, accountID: "g-owned", wantErr: ErrProviderConflict},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			store := newMemStore()
			b := NewBindingManager(store, fakeHasher{})
			seedUser(t, store, &User{
				ID: "owner", SubjectID: "sub-owner", GoogleID: strPtr("g-owned"),
			})
			user := seedUser(t, store, &User{
				ID: "u1", SubjectID: "sub-1", PasswordHash: strPtr("hashed:secret1"),
			})

			// Act
			_, err := b.BindProvider(user, test.provider, test.accountID)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Errorf("should fail with %v; got %v", test.wantErr, err)
			}
		})
	}
}

// Requirement: rebinding the same account to its current owner is a no-op success
func TestBindProvider_Rebind(t *testing.T) {
	// Arrange
	store := newMemStore()
	b := NewBindingManager(store, fakeHasher{})
	user := seedUser(t, store, &User{
		ID: "u1", SubjectID: "sub-1", GoogleID: strPtr("g-1"),
	})

	// Act
	_, err := b.BindProvider(user, ProviderGoogle, "g-1")

	// Assert
	if err != nil {
		t.Errorf("rebinding own account should succeed; got %v", err)
	}
}

// Requirement: unbinding never produces a record with zero login methods
func TestUnbindProvider_LastMethodGuard(t *testing.T) {
	// Arrange: the google binding is the only login method.
	store := newMemStore()
	b := NewBindingManager(store, fakeHasher{})
	user := seedUser(t, store, &User{
		ID: "u1", SubjectID: "sub-1", GoogleID: strPtr("g-1"),
	})

	// Act
	_, err := b.UnbindProvider(user, ProviderGoogle)

	// Assert
	if !errors.Is(err, ErrLastLoginMethod) {
		t.Fatalf("removing the last method should fail with ErrLastLoginMethod; got %v", err)
	}

	// Arrange: after a password is set, the unbind becomes legal.
	user, err = b.SetPassword(user, "secret1")
	if err != nil {
		t.Fatalf("setting a password should succeed; got %v", err)
	}

	// Act
	updated, err := b.UnbindProvider(user, ProviderGoogle)

	// Assert
	if err != nil {
		t.Fatalf("unbind with a remaining method should succeed; got %v", err)
	}
	if updated.GoogleID != nil {
		t.Errorf("google binding should be cleared")
	}
	if !updated.HasPassword() {
		t.Errorf("password should remain usable")
	}
}

// Requirement: unbinding one of several providers succeeds without a password
func TestUnbindProvider_OtherProviderRemains(t *testing.T) {
	// Arrange
	store := newMemStore()
	b := NewBindingManager(store, fakeHasher{})
	user := seedUser(t, store, &User{
		ID: "u1", SubjectID: "sub-1",
		GoogleID: strPtr("g-1"), LineID: strPtr("l-1"),
	})

	// Act
	updated, err := b.UnbindProvider(user, ProviderLine)

	// Assert
	if err != nil {
		t.Fatalf("unbind should succeed; got %v", err)
	}
	if updated.LineID != nil {
		t.Errorf("line binding should be cleared")
	}
	if updated.GoogleID == nil {
		t.Errorf("google binding should remain")
	}
}

// Requirement: SetPassword enforces the minimum length
func TestSetPassword_WeakPassword(t *testing.T) {
	// Arrange
	store := newMemStore()
	b := NewBindingManager(store, fakeHasher{})
	user := seedUser(t, store, &User{ID: "u1", SubjectID: "sub-1", GoogleID: strPtr("g-1")})

	// Act
	_, err := b.SetPassword(user, "12345")

	// Assert
	if !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password should fail with ErrWeakPassword; got %v", err)
	}
}
