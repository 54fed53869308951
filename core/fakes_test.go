package core

import (
	"sync"
)

// memStore is an in-memory UserStorage mirroring the storage adapter's
// uniqueness guarantees, so engine tests exercise the same conflict errors
// a real database would raise.
type memStore struct {
	mu        sync.RWMutex
	users     map[string]*User
	createErr error
	updateErr error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*User)}
}

var _ UserStorage = (*memStore)(nil)

func cloneUser(u *User) *User {
	c := *u
	return &c
}

// checkUnique mirrors the users table constraints.
func (s *memStore) checkUnique(u *User) error {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.SubjectID == u.SubjectID {
			return ErrFieldConflict
		}
		if u.Email != nil && other.Email != nil && *u.Email == *other.Email {
			return ErrEmailTaken
		}
		if u.PhoneNumber != nil && other.PhoneNumber != nil && *u.PhoneNumber == *other.PhoneNumber {
			return ErrPhoneTaken
		}
		for _, p := range Providers() {
			mine, theirs := u.ProviderAccountID(p), other.ProviderAccountID(p)
			if mine != nil && theirs != nil && *mine == *theirs {
				return ErrProviderConflict
			}
		}
	}
	return nil
}

func (s *memStore) CreateUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if err := s.checkUnique(u); err != nil {
		return err
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *memStore) UpdateUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if _, ok := s.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	if err := s.checkUnique(u); err != nil {
		return err
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *memStore) GetUserByID(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, ErrUserNotFound
}

func (s *memStore) GetUserBySubject(subjectID string) (*User, error) {
	return s.find(func(u *User) bool { return u.SubjectID == subjectID })
}

func (s *memStore) GetUserByEmail(email string) (*User, error) {
	return s.find(func(u *User) bool { return u.Email != nil && *u.Email == email })
}

func (s *memStore) GetUserByPhone(phone string) (*User, error) {
	return s.find(func(u *User) bool { return u.PhoneNumber != nil && *u.PhoneNumber == phone })
}

func (s *memStore) GetUserByProvider(p Provider, accountID string) (*User, error) {
	return s.find(func(u *User) bool {
		id := u.ProviderAccountID(p)
		return id != nil && *id == accountID
	})
}

func (s *memStore) find(match func(*User) bool) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *memStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// fakeHasher is a transparent PasswordHandler; argon2 is exercised in its
// own tests and would only slow these down.
type fakeHasher struct{}

var _ PasswordHandler = (*fakeHasher)(nil)

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}

func strPtr(s string) *string {
	return &s
}
