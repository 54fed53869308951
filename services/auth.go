package services

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/lcwang/idgate/core"
)

// AuthService orchestrates the identity-gateway flows: it resolves
// credentials through the reconciliation engine, mints session tokens, and
// manages credential bindings. One instance serves all requests; the store
// is the only shared mutable state.
type AuthService struct {
	store      core.UserStorage
	oracle     core.IdentityOracle
	reconciler *core.Reconciler
	bindings   *core.BindingManager
	logins     *core.CredentialVerifier
	resets     *core.ResetManager
	tokens     *core.TokenIssuer
	log        *zap.Logger
}

// Ensure AuthService implements AuthHandler
var _ core.AuthHandler = (*AuthService)(nil)

func NewAuthService(store core.UserStorage, oracle core.IdentityOracle, hasher core.PasswordHandler, tokens *core.TokenIssuer, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		store:      store,
		oracle:     oracle,
		reconciler: core.NewReconciler(store, hasher),
		bindings:   core.NewBindingManager(store, hasher),
		logins:     core.NewCredentialVerifier(store, hasher),
		resets:     core.NewResetManager(store, hasher),
		tokens:     tokens,
		log:        log,
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OAuthSignIn verifies an oracle assertion, reconciles the attested identity
// onto a user record, and issues a session token.
func (s *AuthService) OAuthSignIn(assertion string) (*core.AuthResult, error) {
	ident, err := s.verifyAssertion(assertion)
	if err != nil {
		return nil, err
	}

	user, isNew, err := s.reconciler.Reconcile(ident)
	if err != nil {
		s.log.Warn("reconciliation rejected",
			zap.String("subject", ident.SubjectID),
			zap.String("provider", string(ident.Provider)),
			zap.Error(err))
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("oauth sign-in",
		zap.String("subject", user.SubjectID),
		zap.String("provider", string(ident.Provider)),
		zap.Bool("new_user", isNew))

	return &core.AuthResult{Token: token, User: user.View(), IsNewUser: isNew}, nil
}

// RegisterPhone creates a record for a phone registration whose OTP proof
// already happened, then issues a session token.
func (s *AuthService) RegisterPhone(input core.RegisterPhoneInput) (*core.AuthResult, error) {
	if input.Email != "" && !emailPattern.MatchString(input.Email) {
		return nil, core.ErrInvalidEmail
	}

	user, err := s.reconciler.RegisterLocal(input)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("phone registration", zap.String("subject", user.SubjectID))

	return &core.AuthResult{Token: token, User: user.View(), IsNewUser: true}, nil
}

// LoginPhone authenticates a phone+password pair and issues a token.
func (s *AuthService) LoginPhone(phoneNumber, password string) (*core.AuthResult, error) {
	return s.sessionFor(func() (*core.User, error) {
		return s.logins.LoginByPhone(phoneNumber, password)
	})
}

// LoginEmail authenticates an email+password pair and issues a token.
func (s *AuthService) LoginEmail(email, password string) (*core.AuthResult, error) {
	return s.sessionFor(func() (*core.User, error) {
		return s.logins.LoginByEmail(email, password)
	})
}

func (s *AuthService) sessionFor(login func() (*core.User, error)) (*core.AuthResult, error) {
	user, err := login()
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.log.Info("password login", zap.String("subject", user.SubjectID))

	return &core.AuthResult{Token: token, User: user.View()}, nil
}

// VerifySession validates a session token and returns its claims.
func (s *AuthService) VerifySession(token string) (*core.Claims, error) {
	return s.tokens.Verify(token)
}

// Me returns the sanitized current-user view for a valid session token.
func (s *AuthService) Me(token string) (*core.UserView, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserBySubject(claims.SubjectID())
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user.View(), nil
}

// LinkProvider binds a secondary OAuth provider to the asserted user.
// The provider-side link must already exist at the oracle; its account id
// is read back from there, never from the request body.
func (s *AuthService) LinkProvider(assertion string, p core.Provider) (*core.UserView, error) {
	if !p.Valid() {
		return nil, core.ErrInvalidProvider
	}

	ident, err := s.verifyAssertion(assertion)
	if err != nil {
		return nil, err
	}

	user, err := s.userBySubject(ident.SubjectID)
	if err != nil {
		return nil, err
	}

	accountID, err := s.oracle.ProviderAccount(ident.SubjectID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider account: %w", err)
	}
	if accountID == "" {
		return nil, core.ErrProviderNotLinked
	}

	updated, err := s.bindings.BindProvider(user, p, accountID)
	if err != nil {
		s.log.Warn("provider bind rejected",
			zap.String("subject", ident.SubjectID),
			zap.String("provider", string(p)),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("provider bound",
		zap.String("subject", ident.SubjectID),
		zap.String("provider", string(p)))

	return updated.View(), nil
}

// UnlinkProvider removes a provider binding from the asserted user,
// refusing to strand the record without a login method.
func (s *AuthService) UnlinkProvider(assertion string, p core.Provider) (*core.UserView, error) {
	if !p.Valid() {
		return nil, core.ErrInvalidProvider
	}

	ident, err := s.verifyAssertion(assertion)
	if err != nil {
		return nil, err
	}

	user, err := s.userBySubject(ident.SubjectID)
	if err != nil {
		return nil, err
	}

	updated, err := s.bindings.UnbindProvider(user, p)
	if err != nil {
		return nil, err
	}

	s.log.Info("provider unbound",
		zap.String("subject", ident.SubjectID),
		zap.String("provider", string(p)))

	return updated.View(), nil
}

// CheckPhone reports whether a phone number is already registered.
func (s *AuthService) CheckPhone(phoneNumber string) (bool, error) {
	return s.resets.CheckAvailability(phoneNumber)
}

// CheckPhoneForReset is the read-only reset-eligibility gate.
func (s *AuthService) CheckPhoneForReset(phoneNumber string) (*core.PhoneStatus, error) {
	return s.resets.CheckEligibility(phoneNumber)
}

// ResetPassword replaces the password behind a verified phone number.
func (s *AuthService) ResetPassword(phoneNumber, newPassword string) error {
	if err := s.resets.ResetPassword(phoneNumber, newPassword); err != nil {
		return err
	}
	s.log.Info("password reset", zap.String("phone", core.NormalizePhone(phoneNumber)))
	return nil
}

// UpdatePhone binds an OTP-verified phone and a contact email to the
// asserted user. The email is user-typed here, so its verified flag is
// recomputed: it holds only when the typed address matches the one the
// oracle attested in this assertion.
func (s *AuthService) UpdatePhone(assertion string, input core.UpdatePhoneInput) (*core.UserView, error) {
	ident, err := s.verifyAssertion(assertion)
	if err != nil {
		return nil, err
	}

	if input.PhoneNumber == "" {
		return nil, core.ErrPhoneRequired
	}
	if input.Email == "" {
		return nil, core.ErrEmailRequired
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, core.ErrInvalidEmail
	}

	phone := core.NormalizePhone(input.PhoneNumber)

	if owner, err := s.store.GetUserByPhone(phone); err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	} else if owner != nil && owner.SubjectID != ident.SubjectID {
		return nil, core.ErrPhoneTaken
	}
	if owner, err := s.store.GetUserByEmail(input.Email); err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if owner != nil && owner.SubjectID != ident.SubjectID {
		return nil, core.ErrEmailTaken
	}

	user, err := s.userBySubject(ident.SubjectID)
	if err != nil {
		return nil, err
	}

	user.PhoneNumber = &phone
	user.PhoneVerified = true
	user.Email = &input.Email
	user.EmailVerified = ident.Email != nil && *ident.Email == input.Email
	if err := s.store.UpdateUser(user); err != nil {
		if errors.Is(err, core.ErrEmailTaken) || errors.Is(err, core.ErrPhoneTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update phone: %w", err)
	}

	s.log.Info("phone bound", zap.String("subject", ident.SubjectID))

	return user.View(), nil
}

func (s *AuthService) verifyAssertion(assertion string) (*core.VerifiedIdentity, error) {
	if assertion == "" {
		return nil, core.ErrMissingAuthHeader
	}
	ident, err := s.oracle.VerifyAssertion(assertion)
	if err != nil {
		s.log.Warn("assertion rejected", zap.Error(err))
		return nil, core.ErrInvalidAssertion
	}
	if ident == nil || ident.SubjectID == "" {
		return nil, core.ErrInvalidAssertion
	}
	return ident, nil
}

func (s *AuthService) userBySubject(subjectID string) (*core.User, error) {
	user, err := s.store.GetUserBySubject(subjectID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
