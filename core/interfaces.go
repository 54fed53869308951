package core

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORT (Database operations)
// ============================================

// UserStorage defines user-record database operations.
//
// Implementations must enforce uniqueness of subject id, email, phone number
// and each provider account id, and translate native constraint violations
// into ErrEmailTaken, ErrPhoneTaken, ErrProviderConflict or ErrFieldConflict.
// The engine's optimistic pre-checks exist only for better error messages;
// the write-time error is the final arbiter under concurrency.
type UserStorage interface {
	CreateUser(u *User) error

	GetUserByID(id string) (*User, error)
	GetUserBySubject(subjectID string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByPhone(phone string) (*User, error)
	GetUserByProvider(p Provider, accountID string) (*User, error)

	UpdateUser(u *User) error
}

// ============================================
// ORACLE PORT
// ============================================

// IdentityOracle verifies caller-supplied identity assertions out-of-band.
//
// It is the only component allowed to construct a VerifiedIdentity; the rest
// of the system trusts its output without re-verification.
type IdentityOracle interface {
	// VerifyAssertion checks the assertion (an ID token from the external
	// identity provider) and returns the attested identity.
	VerifyAssertion(assertion string) (*VerifiedIdentity, error)

	// ProviderAccount returns the account id the subject holds at provider p,
	// as currently recorded at the identity provider. Used when binding a
	// secondary provider after the caller completed the provider-side link.
	ProviderAccount(subjectID string, p Provider) (string, error)
}

// ============================================
// AUTH HANDLER (for HTTP adapters)
// ============================================

// AuthHandler provides the identity-gateway operations for HTTP adapters.
type AuthHandler interface {
	OAuthSignIn(assertion string) (*AuthResult, error)
	RegisterPhone(input RegisterPhoneInput) (*AuthResult, error)
	LoginPhone(phoneNumber, password string) (*AuthResult, error)
	LoginEmail(email, password string) (*AuthResult, error)
	VerifySession(token string) (*Claims, error)
	Me(token string) (*UserView, error)
	LinkProvider(assertion string, p Provider) (*UserView, error)
	UnlinkProvider(assertion string, p Provider) (*UserView, error)
	CheckPhone(phoneNumber string) (bool, error)
	CheckPhoneForReset(phoneNumber string) (*PhoneStatus, error)
	ResetPassword(phoneNumber, newPassword string) error
	UpdatePhone(assertion string, input UpdatePhoneInput) (*UserView, error)
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(handler AuthHandler, basePath string) error
}
