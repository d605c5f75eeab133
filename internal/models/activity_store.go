package models

import (
	"errors"
	"sync"
)

// ErrDuplicateEvent is returned when an activity for the same external event
// key already exists. Reprocessing a delivery is a skip, not a failure.
var ErrDuplicateEvent = errors.New("duplicate event key")

// ActivityStore holds the immutable activity records and the per-user XP
// history ledger. The event-key index makes ingestion idempotent: one
// external delivery id maps to at most one activity.
//
// The in-memory history keeps a bounded window per user (historyWindow from
// config); the snapshot always carries the full window present in memory.
type ActivityStore struct {
	mu            sync.RWMutex
	activities    map[string]*Activity
	byEventKey    map[string]string
	byUser        map[string][]string
	history       map[string][]*XPHistoryEntry
	historyWindow int
}

func NewActivityStore(historyWindow int) *ActivityStore {
	if historyWindow <= 0 {
		historyWindow = 500
	}
	return &ActivityStore{
		activities:    make(map[string]*Activity),
		byEventKey:    make(map[string]string),
		byUser:        make(map[string][]string),
		history:       make(map[string][]*XPHistoryEntry),
		historyWindow: historyWindow,
	}
}

// HasEventKey reports whether a delivery id has already produced an activity
// or holds a claim.
func (s *ActivityStore) HasEventKey(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEventKey[key]
	return ok
}

// ClaimEventKey atomically reserves a delivery id before the user transaction
// runs, closing the window between dedup check and insert. Returns false if
// the key is already taken.
func (s *ActivityStore) ClaimEventKey(key string) bool {
	if key == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEventKey[key]; ok {
		return false
	}
	s.byEventKey[key] = ""
	return true
}

// ReleaseEventKey drops an unfulfilled claim after a failed transaction so
// the delivery can be retried.
func (s *ActivityStore) ReleaseEventKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byEventKey[key]; ok && id == "" {
		delete(s.byEventKey, key)
	}
}

// Insert stores an activity and its ledger entry. The caller must hold a
// claim on the activity's event key (or the key must be free).
func (s *ActivityStore) Insert(a *Activity, h *XPHistoryEntry) error {
	if a == nil {
		return ErrDuplicateEvent
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byEventKey[a.EventKey]; ok && id != "" {
		return ErrDuplicateEvent
	}
	s.activities[a.ID] = a.Clone()
	s.byEventKey[a.EventKey] = a.ID
	s.byUser[a.UserID] = append(s.byUser[a.UserID], a.ID)

	if h != nil {
		entries := append(s.history[h.UserID], h.Clone())
		if len(entries) > s.historyWindow {
			entries = entries[len(entries)-s.historyWindow:]
		}
		s.history[h.UserID] = entries
	}
	return nil
}

func (s *ActivityStore) Get(id string) (*Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// ByUser returns up to limit most recent activities for a user, newest first.
func (s *ActivityStore) ByUser(userID string, limit int) []*Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byUser[userID]
	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}
	result := make([]*Activity, 0, limit)
	for i := len(ids) - 1; i >= 0 && len(result) < limit; i-- {
		if a, ok := s.activities[ids[i]]; ok {
			result = append(result, a.Clone())
		}
	}
	return result
}

// HistoryByUser returns up to limit most recent ledger entries, newest first.
func (s *ActivityStore) HistoryByUser(userID string, limit int) []*XPHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.history[userID]
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	result := make([]*XPHistoryEntry, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, entries[i].Clone())
	}
	return result
}

// HistorySum returns the sum of XPChange over the retained ledger window.
func (s *ActivityStore) HistorySum(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, e := range s.history[userID] {
		total += e.XPChange
	}
	return total
}

func (s *ActivityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

func (s *ActivityStore) GetData() (map[string]*Activity, map[string][]*XPHistoryEntry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acts := make(map[string]*Activity, len(s.activities))
	for id, a := range s.activities {
		acts[id] = a.Clone()
	}
	hist := make(map[string][]*XPHistoryEntry, len(s.history))
	for uid, entries := range s.history {
		copied := make([]*XPHistoryEntry, len(entries))
		for i, e := range entries {
			copied[i] = e.Clone()
		}
		hist[uid] = copied
	}
	return acts, hist
}

// PutData replaces the store contents and rebuilds the event-key and user
// indexes. Used on snapshot restore only.
func (s *ActivityStore) PutData(activities map[string]*Activity, history map[string][]*XPHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = make(map[string]*Activity, len(activities))
	s.byEventKey = make(map[string]string, len(activities))
	s.byUser = make(map[string][]string)
	for id, a := range activities {
		if a == nil || id == "" {
			continue
		}
		s.activities[id] = a.Clone()
		if a.EventKey != "" {
			s.byEventKey[a.EventKey] = id
		}
		s.byUser[a.UserID] = append(s.byUser[a.UserID], id)
	}
	// Keep per-user activity order stable by timestamp after a rebuild.
	for uid := range s.byUser {
		ids := s.byUser[uid]
		sortActivityIDs(ids, s.activities)
	}
	s.history = make(map[string][]*XPHistoryEntry, len(history))
	for uid, entries := range history {
		copied := make([]*XPHistoryEntry, 0, len(entries))
		for _, e := range entries {
			if e != nil {
				copied = append(copied, e.Clone())
			}
		}
		s.history[uid] = copied
	}
}
