package core

import (
	"errors"
	"fmt"
	"time"
)

// CredentialVerifier checks locally-held credentials against stored records.
type CredentialVerifier struct {
	store  UserStorage
	hasher PasswordHandler
}

func NewCredentialVerifier(store UserStorage, hasher PasswordHandler) *CredentialVerifier {
	return &CredentialVerifier{store: store, hasher: hasher}
}

// LoginByPhone authenticates a phone+password pair.
func (v *CredentialVerifier) LoginByPhone(phoneNumber, password string) (*User, error) {
	if phoneNumber == "" {
		return nil, ErrPhoneRequired
	}
	return v.login(func() (*User, error) {
		return v.store.GetUserByPhone(NormalizePhone(phoneNumber))
	}, password)
}

// LoginByEmail authenticates an email+password pair.
func (v *CredentialVerifier) LoginByEmail(email, password string) (*User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	return v.login(func() (*User, error) {
		return v.store.GetUserByEmail(email)
	}, password)
}

// login resolves the record and verifies the password. An unknown identifier
// and a wrong password are deliberately the same error.
func (v *CredentialVerifier) login(lookup func() (*User, error), password string) (*User, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	user, err := lookup()
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrNoPasswordSet
	}

	valid, err := v.hasher.Verify(password, *user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := v.store.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to stamp login: %w", err)
	}

	return user, nil
}
