package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/lcwang/idgate/pkg/crypto"
)

// Reconciler maps one verified external identity (or a local phone
// registration) onto exactly one User record, enforcing the uniqueness
// invariants and deciding create vs. update.
type Reconciler struct {
	store  UserStorage
	hasher PasswordHandler
	ids    *crypto.NanoIDGenerator
}

func NewReconciler(store UserStorage, hasher PasswordHandler) *Reconciler {
	return &Reconciler{
		store:  store,
		hasher: hasher,
		ids:    crypto.DefaultGenerator(),
	}
}

// Reconcile resolves an oracle-attested identity to a user record.
// Returns the record and whether it was newly created.
//
// The subject id is trusted blindly; it must already have passed oracle
// verification. A provider account held by a different user fails with
// ErrProviderConflict before anything is mutated.
func (r *Reconciler) Reconcile(ident *VerifiedIdentity) (*User, bool, error) {
	if ident == nil || ident.SubjectID == "" {
		return nil, false, ErrSubjectRequired
	}

	// Step 1: refuse identity takeover through a provider account that
	// already belongs to someone else.
	if ident.ProviderAccountID != "" {
		owner, err := r.store.GetUserByProvider(ident.Provider, ident.ProviderAccountID)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return nil, false, fmt.Errorf("failed to check provider owner: %w", err)
		}
		if owner != nil && owner.SubjectID != ident.SubjectID {
			return nil, false, ErrProviderConflict
		}
	}

	// Step 2: resolve by subject id.
	user, err := r.store.GetUserBySubject(ident.SubjectID)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	if user != nil {
		if err := r.applyIdentity(user, ident); err != nil {
			return nil, false, err
		}
		now := time.Now()
		user.LastLoginAt = &now

		// Step 3: the store's unique constraints are the final arbiter;
		// a race past the pre-checks surfaces as a conflict here.
		if err := r.store.UpdateUser(user); err != nil {
			return nil, false, translateWriteConflict(err)
		}
		return user, false, nil
	}

	// Create path. External-identity-originated accounts start password-less.
	id, err := r.ids.Generate()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate record id: %w", err)
	}
	now := time.Now()
	user = &User{
		ID:          id,
		SubjectID:   ident.SubjectID,
		LastLoginAt: &now,
	}
	if err := r.applyIdentity(user, ident); err != nil {
		return nil, false, err
	}

	// A record must never exist with zero usable login methods. An assertion
	// that binds no provider account cannot seed a new record; only the
	// update path may accept it.
	if user.LoginMethodCount() == 0 {
		return nil, false, ErrInvalidAssertion
	}

	if err := r.store.CreateUser(user); err != nil {
		return nil, false, translateWriteConflict(err)
	}
	return user, true, nil
}

// applyIdentity copies oracle-supplied fields onto the record.
// Fields the assertion did not address (nil) leave the stored value intact;
// supplied fields always overwrite, and only oracle-supplied values may set
// the verified flags.
func (r *Reconciler) applyIdentity(user *User, ident *VerifiedIdentity) error {
	if ident.Email != nil {
		user.Email = ident.Email
		user.EmailVerified = true
	}
	if ident.DisplayName != nil {
		user.DisplayName = ident.DisplayName
	}
	if ident.AvatarURL != nil {
		user.AvatarURL = ident.AvatarURL
	}
	if ident.Phone != nil {
		phone := NormalizePhone(*ident.Phone)
		owner, err := r.store.GetUserByPhone(phone)
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return fmt.Errorf("failed to check phone owner: %w", err)
		}
		if owner != nil && owner.SubjectID != ident.SubjectID {
			return ErrFieldConflict
		}
		user.PhoneNumber = &phone
		user.PhoneVerified = true
	}
	if ident.ProviderAccountID != "" {
		user.SetProviderAccountID(ident.Provider, ident.ProviderAccountID)
	}
	return nil
}

// RegisterLocal is the restricted create branch for phone registrations:
// the subject id comes from a completed OTP proof, the phone is therefore
// verified, the email is user-typed and therefore not.
func (r *Reconciler) RegisterLocal(input RegisterPhoneInput) (*User, error) {
	switch {
	case input.SubjectID == "":
		return nil, ErrSubjectRequired
	case input.Email == "":
		return nil, ErrEmailRequired
	case input.PhoneNumber == "":
		return nil, ErrPhoneRequired
	case input.Password == "":
		return nil, ErrPasswordRequired
	case len(input.Password) < MinPasswordLength:
		return nil, ErrWeakPassword
	}

	phone := NormalizePhone(input.PhoneNumber)

	// Optimistic pre-checks, in order: email first, then phone. Both races
	// are caught again at the write below.
	if existing, err := r.store.GetUserByEmail(input.Email); err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := r.store.GetUserByPhone(phone); err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	} else if existing != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := r.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := r.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate record id: %w", err)
	}

	user := &User{
		ID:            id,
		SubjectID:     input.SubjectID,
		Email:         &input.Email,
		EmailVerified: false,
		PhoneNumber:   &phone,
		PhoneVerified: true,
		PasswordHash:  &hash,
		DisplayName:   input.DisplayName,
	}
	if err := r.store.CreateUser(user); err != nil {
		return nil, translateRegisterConflict(err)
	}
	return user, nil
}

// translateRegisterConflict folds write-time uniqueness violations into the
// kinds the registration path reports. A duplicate subject id means the same
// OTP proof raced into two registrations, which is a phone-level duplicate.
func translateRegisterConflict(err error) error {
	switch {
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrPhoneTaken):
		return err
	case errors.Is(err, ErrFieldConflict), errors.Is(err, ErrProviderConflict):
		return ErrPhoneTaken
	}
	return fmt.Errorf("failed to persist user: %w", err)
}

// translateWriteConflict folds taken-value errors from the store into the
// reconcile-path conflict kind. Provider conflicts keep their own kind.
func translateWriteConflict(err error) error {
	switch {
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrPhoneTaken), errors.Is(err, ErrFieldConflict):
		return ErrFieldConflict
	case errors.Is(err, ErrProviderConflict):
		return ErrProviderConflict
	}
	return fmt.Errorf("failed to persist user: %w", err)
}
