package core

import (
	"errors"
	"fmt"
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 6

// BindingManager attaches and detaches secondary login methods on an
// already-authenticated user, guarding the at-least-one-method invariant.
type BindingManager struct {
	store  UserStorage
	hasher PasswordHandler
}

func NewBindingManager(store UserStorage, hasher PasswordHandler) *BindingManager {
	return &BindingManager{store: store, hasher: hasher}
}

// BindProvider sets the provider account id on the user.
// The provider-side linking is the caller's responsibility and must have
// happened before this call.
func (b *BindingManager) BindProvider(user *User, p Provider, accountID string) (*User, error) {
	if !p.Valid() {
		return nil, ErrInvalidProvider
	}
	if accountID == "" {
		return nil, ErrAccountIDRequired
	}

	owner, err := b.store.GetUserByProvider(p, accountID)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check provider owner: %w", err)
	}
	if owner != nil && owner.ID != user.ID {
		return nil, ErrProviderConflict
	}

	user.SetProviderAccountID(p, accountID)
	if err := b.store.UpdateUser(user); err != nil {
		if errors.Is(err, ErrProviderConflict) {
			return nil, ErrProviderConflict
		}
		return nil, fmt.Errorf("failed to bind provider: %w", err)
	}
	return user, nil
}

// UnbindProvider clears the provider binding.
// Fails with ErrLastLoginMethod when no password and no other provider
// would remain; a record with zero login methods must never be produced.
func (b *BindingManager) UnbindProvider(user *User, p Provider) (*User, error) {
	if !p.Valid() {
		return nil, ErrInvalidProvider
	}

	remaining := user.LinkedProviderCount()
	if user.ProviderAccountID(p) != nil {
		remaining--
	}
	if user.HasPassword() {
		remaining++
	}
	if remaining == 0 {
		return nil, ErrLastLoginMethod
	}

	user.ClearProviderAccountID(p)
	if err := b.store.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to unbind provider: %w", err)
	}
	return user, nil
}

// SetPassword hashes and stores a new password. Adding a password never
// removes a login method, so this is always legal on an identified user.
func (b *BindingManager) SetPassword(user *User, plaintext string) (*User, error) {
	if len(plaintext) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := b.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &hash
	if err := b.store.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to store password: %w", err)
	}
	return user, nil
}
