package core

import (
	"errors"
	"fmt"
)

// ResetManager gates and performs phone-based password resets.
type ResetManager struct {
	store  UserStorage
	hasher PasswordHandler
}

func NewResetManager(store UserStorage, hasher PasswordHandler) *ResetManager {
	return &ResetManager{store: store, hasher: hasher}
}

// CheckAvailability reports whether a phone number is already registered.
// Read-only; used by registration UIs before an OTP is sent.
func (m *ResetManager) CheckAvailability(phoneNumber string) (bool, error) {
	if phoneNumber == "" {
		return false, ErrPhoneRequired
	}
	_, err := m.store.GetUserByPhone(NormalizePhone(phoneNumber))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up phone: %w", err)
	}
	return true, nil
}

// CheckEligibility decides whether the phone number may drive a password
// reset, before any OTP is sent. Read-only and side-effect-free; it reveals
// only the two booleans, never the account's email or other PII.
func (m *ResetManager) CheckEligibility(phoneNumber string) (*PhoneStatus, error) {
	if phoneNumber == "" {
		return nil, ErrPhoneRequired
	}

	user, err := m.store.GetUserByPhone(NormalizePhone(phoneNumber))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &PhoneStatus{Exists: false}, nil
		}
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}

	return &PhoneStatus{Exists: true, PhoneVerified: user.PhoneVerified}, nil
}

// ResetPassword replaces the password of the record holding the phone
// number. Only a verified number proves control: an unverified one fails
// with ErrPhoneNotVerified.
func (m *ResetManager) ResetPassword(phoneNumber, newPassword string) error {
	if phoneNumber == "" {
		return ErrPhoneRequired
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	user, err := m.store.GetUserByPhone(NormalizePhone(phoneNumber))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("failed to look up phone: %w", err)
	}

	if !user.PhoneVerified {
		return ErrPhoneNotVerified
	}

	hash, err := m.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &hash
	if err := m.store.UpdateUser(user); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	return nil
}
