package models

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	// ErrConflict is returned when an optimistic update loses the version
	// race more times than the retry bound allows. The caller surfaces it
	// for redelivery.
	ErrConflict = errors.New("update conflict: retries exhausted")
)

// maxUpdateRetries bounds the compare-and-swap loop in Update.
const maxUpdateRetries = 5

type versionedUser struct {
	doc     *User
	version uint64
}

// UserStore holds user documents with per-document versions. Reads hand out
// deep copies; writes go through Create or the optimistic Update below, which
// is the single serialization point for concurrent events on one user.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*versionedUser
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*versionedUser)}
}

func (s *UserStore) Get(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vu, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return vu.doc.Clone(), true
}

func (s *UserStore) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

func (s *UserStore) Create(u *User) error {
	if u == nil || u.ID == "" {
		return ErrUserNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; ok {
		return ErrUserExists
	}
	s.users[u.ID] = &versionedUser{doc: u.Clone(), version: 1}
	return nil
}

// Update applies fn to a private copy of the document and commits it with a
// compare-and-swap on the version. On version conflict the read-modify-write
// is retried up to maxUpdateRetries times, then ErrConflict is returned.
// An error from fn aborts the whole update with nothing written.
func (s *UserStore) Update(id string, fn func(*User) error) (*User, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		s.mu.RLock()
		vu, ok := s.users[id]
		if !ok {
			s.mu.RUnlock()
			return nil, ErrUserNotFound
		}
		version := vu.version
		work := vu.doc.Clone()
		s.mu.RUnlock()

		if err := fn(work); err != nil {
			return nil, err
		}

		s.mu.Lock()
		cur, ok := s.users[id]
		if !ok {
			s.mu.Unlock()
			return nil, ErrUserNotFound
		}
		if cur.version == version {
			s.users[id] = &versionedUser{doc: work, version: version + 1}
			s.mu.Unlock()
			return work.Clone(), nil
		}
		s.mu.Unlock()
		// Lost the race, re-read and retry.
	}
	return nil, ErrConflict
}

func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// TopByXP returns up to limit users sorted by cumulative XP descending,
// ties broken by id for deterministic output.
func (s *UserStore) TopByXP(limit int) []*User {
	s.mu.RLock()
	all := make([]*User, 0, len(s.users))
	for _, vu := range s.users {
		all = append(all, vu.doc.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].XP != all[j].XP {
			return all[i].XP > all[j].XP
		}
		return all[i].ID < all[j].ID
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

func (s *UserStore) GetData() map[string]*User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*User, len(s.users))
	for id, vu := range s.users {
		result[id] = vu.doc.Clone()
	}
	return result
}

// PutData replaces the whole store, resetting versions. Used on snapshot
// restore only.
func (s *UserStore) PutData(data map[string]*User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*versionedUser, len(data))
	for id, u := range data {
		if u == nil || id == "" {
			continue
		}
		s.users[id] = &versionedUser{doc: u.Clone(), version: 1}
	}
}
