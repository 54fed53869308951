package services

import (
	"sync"

	"github.com/lcwang/idgate/core"
)

// FakeUserStorage is a test-only fake implementing core.UserStorage.
// It enforces the same uniqueness rules a real store would and translates
// violations into the core conflict errors, so the check-then-write race
// contract is exercisable without a database.
type FakeUserStorage struct {
	mu        sync.RWMutex
	users     map[string]*core.User // keyed by record id
	createErr error
	updateErr error
}

func NewFakeUserStorage() *FakeUserStorage {
	return &FakeUserStorage{users: make(map[string]*core.User)}
}

// SetCreateError injects a failure for the next CreateUser calls.
func (f *FakeUserStorage) SetCreateError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

// SetUpdateError injects a failure for the next UpdateUser calls.
func (f *FakeUserStorage) SetUpdateError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

func (f *FakeUserStorage) CreateUser(u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if err := f.checkUnique(u); err != nil {
		return err
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *FakeUserStorage) GetUserByID(id string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeUserStorage) GetUserBySubject(subjectID string) (*core.User, error) {
	return f.find(func(u *core.User) bool { return u.SubjectID == subjectID })
}

func (f *FakeUserStorage) GetUserByEmail(email string) (*core.User, error) {
	return f.find(func(u *core.User) bool { return u.Email != nil && *u.Email == email })
}

func (f *FakeUserStorage) GetUserByPhone(phone string) (*core.User, error) {
	return f.find(func(u *core.User) bool { return u.PhoneNumber != nil && *u.PhoneNumber == phone })
}

func (f *FakeUserStorage) GetUserByProvider(p core.Provider, accountID string) (*core.User, error) {
	return f.find(func(u *core.User) bool {
		id := u.ProviderAccountID(p)
		return id != nil && *id == accountID
	})
}

func (f *FakeUserStorage) UpdateUser(u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return core.ErrUserNotFound
	}
	if err := f.checkUnique(u); err != nil {
		return err
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *FakeUserStorage) find(match func(*core.User) bool) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrUserNotFound
}

// checkUnique mirrors the unique constraints of the users table.
// Caller must hold the lock.
func (f *FakeUserStorage) checkUnique(candidate *core.User) error {
	for _, u := range f.users {
		if u.ID == candidate.ID {
			continue
		}
		if u.SubjectID == candidate.SubjectID {
			return core.ErrFieldConflict
		}
		if candidate.Email != nil && u.Email != nil && *u.Email == *candidate.Email {
			return core.ErrEmailTaken
		}
		if candidate.PhoneNumber != nil && u.PhoneNumber != nil && *u.PhoneNumber == *candidate.PhoneNumber {
			return core.ErrPhoneTaken
		}
		for _, p := range core.Providers() {
			cid := candidate.ProviderAccountID(p)
			uid := u.ProviderAccountID(p)
			if cid != nil && uid != nil && *cid == *uid {
				return core.ErrProviderConflict
			}
		}
	}
	return nil
}

// FakeOracle is a test-only fake implementing core.IdentityOracle.
// Assertions are opaque keys into the identities map; provider accounts
// are keyed by subject id and provider.
type FakeOracle struct {
	identities map[string]*core.VerifiedIdentity
	accounts   map[string]string
	verifyErr  error
}

func NewFakeOracle() *FakeOracle {
	return &FakeOracle{
		identities: make(map[string]*core.VerifiedIdentity),
		accounts:   make(map[string]string),
	}
}

// AddAssertion registers an assertion string resolving to ident.
func (f *FakeOracle) AddAssertion(assertion string, ident *core.VerifiedIdentity) {
	f.identities[assertion] = ident
}

// AddProviderAccount records a provider-side link for a subject.
func (f *FakeOracle) AddProviderAccount(subjectID string, p core.Provider, accountID string) {
	f.accounts[subjectID+"/"+string(p)] = accountID
}

// SetVerifyError makes every VerifyAssertion call fail.
func (f *FakeOracle) SetVerifyError(err error) {
	f.verifyErr = err
}

func (f *FakeOracle) VerifyAssertion(assertion string) (*core.VerifiedIdentity, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	ident, ok := f.identities[assertion]
	if !ok {
		return nil, core.ErrInvalidAssertion
	}
	return ident, nil
}

func (f *FakeOracle) ProviderAccount(subjectID string, p core.Provider) (string, error) {
	return f.accounts[subjectID+"/"+string(p)], nil
}
