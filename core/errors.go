package core

import "errors"

// Conflict errors: a uniqueness invariant would be violated.
// Never retried automatically; surfaced verbatim to the caller.
var (
	ErrProviderConflict = errors.New("provider account already bound to another user") // 409 Conflict
	ErrFieldConflict    = errors.New("field value already used by another user")       // 409 Conflict
	ErrEmailTaken       = errors.New("email already registered")                       // 409 Conflict
	ErrPhoneTaken       = errors.New("phone number already registered")                // 409 Conflict
)

// Auth errors. Wrong-password and unknown-identifier are indistinguishable
// on purpose, to avoid account enumeration.
var (
	ErrInvalidCredentials = errors.New("invalid identifier or password") // 401 Unauthorized
	ErrInvalidToken       = errors.New("invalid or expired token")       // 401 Unauthorized
	ErrInvalidAssertion   = errors.New("identity assertion invalid")     // 401 Unauthorized
	ErrMissingAuthHeader  = errors.New("missing authorization header")   // 401 Unauthorized
	ErrUserNotFound       = errors.New("user not found")                 // 404 Not Found
)

// State errors: the operation would leave the record in an unsafe state.
var (
	ErrLastLoginMethod  = errors.New("cannot remove the last remaining login method") // 400
	ErrNoPasswordSet    = errors.New("no password set for this account")              // 400
	ErrNotRegistered    = errors.New("phone number not registered")                   // 404
	ErrPhoneNotVerified = errors.New("phone number not verified")                     // 403
)

// Validation errors (client input).
var (
	ErrSubjectRequired   = errors.New("subject id is required")                       // 400
	ErrEmailRequired     = errors.New("email is required")                            // 400
	ErrInvalidEmail      = errors.New("invalid email format")                         // 400
	ErrPhoneRequired     = errors.New("phone number is required")                     // 400
	ErrPasswordRequired  = errors.New("password is required")                         // 400
	ErrWeakPassword      = errors.New("password must be at least 6 characters")       // 400
	ErrInvalidProvider   = errors.New("invalid provider")                             // 400
	ErrProviderNotLinked = errors.New("provider not linked at the identity provider") // 400
	ErrAccountIDRequired = errors.New("provider account id is required")              // 400
)

// Config errors (server-side configuration).
var (
	ErrStorageRequired = errors.New("user storage is required")
	ErrOracleRequired  = errors.New("identity oracle is required")
	ErrSecretRequired  = errors.New("secret is required")
	ErrSecretTooShort  = errors.New("secret too short")
)
