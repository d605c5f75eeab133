package models

import "sync"

// ConnectedAccount links an external provider identity to an internal user.
type ConnectedAccount struct {
	Provider string `json:"provider"`
	Login    string `json:"login"`
	UserID   string `json:"user_id"`
}

// AccountStore resolves webhook sender identities to user ids. Unknown
// senders are a silent skip for the pipeline, never an error.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]string
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]string)}
}

func accountKey(provider, login string) string {
	return provider + "/" + login
}

func (s *AccountStore) Link(provider, login, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountKey(provider, login)] = userID
}

func (s *AccountStore) Resolve(provider, login string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accounts[accountKey(provider, login)]
	return id, ok
}

func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (s *AccountStore) GetData() []ConnectedAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]ConnectedAccount, 0, len(s.accounts))
	for key, uid := range s.accounts {
		for i := 0; i < len(key); i++ {
			if key[i] == '/' {
				result = append(result, ConnectedAccount{
					Provider: key[:i],
					Login:    key[i+1:],
					UserID:   uid,
				})
				break
			}
		}
	}
	return result
}

func (s *AccountStore) PutData(accounts []ConnectedAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]string, len(accounts))
	for _, a := range accounts {
		if a.Provider == "" || a.Login == "" || a.UserID == "" {
			continue
		}
		s.accounts[accountKey(a.Provider, a.Login)] = a.UserID
	}
}
