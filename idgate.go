// Package idgate is a multi-provider identity gateway: it reconciles
// email/password, phone/password and OAuth (Google, Facebook, LINE)
// credentials onto a single durable user record and issues self-contained
// session tokens for subsequent requests.
package idgate

import (
	"fmt"

	"github.com/lcwang/idgate/core"
	"github.com/lcwang/idgate/services"
)

// interfaces
type (
	UserStorage    = core.UserStorage
	IdentityOracle = core.IdentityOracle

	HTTPAdapter = core.HTTPAdapter
	AuthHandler = core.AuthHandler

	PasswordHandler = core.PasswordHandler
)

// structs
type (
	Config      = core.Config
	AuthService = services.AuthService
	TokenIssuer = core.TokenIssuer
)

type (
	User             = core.User
	UserView         = core.UserView
	VerifiedIdentity = core.VerifiedIdentity
	Claims           = core.Claims
	Provider         = core.Provider
	AuthResult       = core.AuthResult
	PhoneStatus      = core.PhoneStatus

	RegisterPhoneInput = core.RegisterPhoneInput
	UpdatePhoneInput   = core.UpdatePhoneInput
)

const (
	ProviderGoogle   = core.ProviderGoogle
	ProviderFacebook = core.ProviderFacebook
	ProviderLine     = core.ProviderLine
)

const (
	defaultBasePath  = "/api/auth"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewArgon2       = core.NewArgon2
	NewTokenIssuer  = core.NewTokenIssuer
	ParseProvider   = core.ParseProvider
	NormalizePhone  = core.NormalizePhone
	DefaultTokenTTL = core.DefaultTokenTTL
)

var (
	ErrProviderConflict = core.ErrProviderConflict
	ErrFieldConflict    = core.ErrFieldConflict
	ErrEmailTaken       = core.ErrEmailTaken
	ErrPhoneTaken       = core.ErrPhoneTaken
)

var (
	ErrInvalidCredentials = core.ErrInvalidCredentials
	ErrInvalidToken       = core.ErrInvalidToken
	ErrInvalidAssertion   = core.ErrInvalidAssertion
	ErrMissingAuthHeader  = core.ErrMissingAuthHeader
	ErrUserNotFound       = core.ErrUserNotFound
)

var (
	ErrLastLoginMethod  = core.ErrLastLoginMethod
	ErrNoPasswordSet    = core.ErrNoPasswordSet
	ErrNotRegistered    = core.ErrNotRegistered
	ErrPhoneNotVerified = core.ErrPhoneNotVerified
	ErrWeakPassword     = core.ErrWeakPassword
	ErrInvalidProvider  = core.ErrInvalidProvider
)

var (
	ErrStorageRequired = core.ErrStorageRequired
	ErrOracleRequired  = core.ErrOracleRequired
	ErrSecretRequired  = core.ErrSecretRequired
	ErrSecretTooShort  = core.ErrSecretTooShort
)

// New wires an identity gateway from the injected store handle and oracle.
// Lifecycle is owned by the caller's bootstrap; the library keeps no
// process-global state.
func New(config Config) (*AuthService, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrStorageRequired
	}
	if config.Oracle == nil {
		return nil, ErrOracleRequired
	}

	// Set Defaults

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = core.NewArgon2()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	tokens := core.NewTokenIssuer(config.Secret, config.TokenTTL)

	service := services.NewAuthService(config.Database, config.Oracle, passwordHasher, tokens, config.Logger)

	if config.HTTP != nil {
		if err := config.HTTP.RegisterRoutes(service, basePath); err != nil {
			return nil, err
		}
	}

	return service, nil
}
