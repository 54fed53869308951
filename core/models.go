package core

import "time"

// User is the single durable identity record.
//
// Every credential a person holds (password, Google, Facebook, LINE) maps
// onto exactly one of these. Uniqueness of SubjectID, Email, PhoneNumber and
// each provider account id is enforced by the storage adapter.
type User struct {
	ID            string     `json:"id"`
	SubjectID     string     `json:"subjectId"`
	Email         *string    `json:"email"`
	EmailVerified bool       `json:"emailVerified"`
	PhoneNumber   *string    `json:"phoneNumber"`
	PhoneVerified bool       `json:"phoneVerified"`
	PasswordHash  *string    `json:"-"` // Never expose in JSON
	DisplayName   *string    `json:"displayName,omitempty"`
	AvatarURL     *string    `json:"avatarUrl,omitempty"`
	GoogleID      *string    `json:"googleId,omitempty"`
	FacebookID    *string    `json:"facebookId,omitempty"`
	LineID        *string    `json:"lineId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

// HasPassword reports whether the password credential is usable.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// LinkedProviderCount returns the number of OAuth providers bound to this record.
func (u *User) LinkedProviderCount() int {
	count := 0
	for _, p := range Providers() {
		if u.ProviderAccountID(p) != nil {
			count++
		}
	}
	return count
}

// LoginMethodCount returns the number of usable login methods.
// A record must never reach zero.
func (u *User) LoginMethodCount() int {
	count := u.LinkedProviderCount()
	if u.HasPassword() {
		count++
	}
	return count
}

// View returns the caller-facing projection of the record.
func (u *User) View() *UserView {
	return &UserView{
		SubjectID:     u.SubjectID,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		DisplayName:   u.DisplayName,
		AvatarURL:     u.AvatarURL,
		GoogleID:      u.GoogleID,
		FacebookID:    u.FacebookID,
		LineID:        u.LineID,
		HasPassword:   u.HasPassword(),
	}
}

// UserView is the sanitized user representation returned to clients.
// It never carries the password hash, only whether one is set.
type UserView struct {
	SubjectID     string  `json:"uid"`
	Email         *string `json:"email"`
	PhoneNumber   *string `json:"phoneNumber"`
	EmailVerified bool    `json:"emailVerified"`
	PhoneVerified bool    `json:"phoneVerified"`
	DisplayName   *string `json:"displayName"`
	AvatarURL     *string `json:"avatarUrl"`
	GoogleID      *string `json:"googleId"`
	FacebookID    *string `json:"facebookId"`
	LineID        *string `json:"lineId"`
	HasPassword   bool    `json:"hasPassword"`
}

// VerifiedIdentity is an external identity attested by the identity oracle.
//
// Values of this type must only be produced by an IdentityOracle
// implementation after it has verified the caller's assertion; the
// reconciliation engine trusts them blindly. Optional fields are pointers:
// nil means the oracle did not address the field in this assertion and the
// stored value is left untouched, non-nil means the oracle supplied a
// verified value that overwrites the stored one.
type VerifiedIdentity struct {
	SubjectID         string
	Provider          Provider
	ProviderAccountID string // empty when the assertion carried no provider identity
	Email             *string
	Phone             *string
	DisplayName       *string
	AvatarURL         *string
}

// RegisterPhoneInput carries a local phone registration.
// SubjectID must come from a completed phone-OTP proof.
type RegisterPhoneInput struct {
	SubjectID   string  `json:"uid"`
	Email       string  `json:"email"`
	PhoneNumber string  `json:"phoneNumber"`
	Password    string  `json:"password"`
	DisplayName *string `json:"displayName,omitempty"`
}

// UpdatePhoneInput binds an OTP-verified phone (and a contact email) to an
// already-authenticated OAuth user completing registration.
type UpdatePhoneInput struct {
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// AuthResult is the outcome of any operation that establishes a session.
type AuthResult struct {
	Token     string    `json:"token"`
	User      *UserView `json:"user"`
	IsNewUser bool      `json:"isNewUser,omitempty"`
}

// PhoneStatus is the read-only answer of the reset-eligibility check.
type PhoneStatus struct {
	Exists        bool `json:"exists"`
	PhoneVerified bool `json:"phoneVerified"`
}
