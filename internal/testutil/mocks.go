package testutil

import (
	"sync"
	"time"

	"chd/internal/models"
	"chd/internal/providers"
	"chd/internal/services"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any recorded entry has the given level.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockProgressionService implements services.ProgressionServiceInterface
// with injectable behavior per method.
type MockProgressionService struct {
	mu sync.Mutex

	ValidateErr    error
	ProcessResult  *services.ProcessResult
	ProcessErr     error
	ProcessCalls   []ProcessCall
	Users          map[string]*models.User
	CreateErr      error
	LinkErr        error
	LinkCalls      []LinkCall
	LeaderboardVal []*models.User
	ActivitiesVal  []*models.Activity
	HistoryVal     []*models.XPHistoryEntry
	BadgesVal      []*models.UserBadge
	Processed      int64
	Skipped        int64
	Snapshot       *models.Storage
	PutCalls       []*models.Storage
}

type ProcessCall struct {
	Provider   string
	EventHint  string
	DeliveryID string
	Payload    map[string]any
}

type LinkCall struct {
	Provider string
	Login    string
	UserID   string
}

func (m *MockProgressionService) ValidatePayload(provider string, payload map[string]any) error {
	return m.ValidateErr
}

func (m *MockProgressionService) ProcessEvent(provider, eventHint, deliveryID string, payload map[string]any, now time.Time) (*services.ProcessResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessCalls = append(m.ProcessCalls, ProcessCall{Provider: provider, EventHint: eventHint, DeliveryID: deliveryID, Payload: payload})
	if m.ProcessErr != nil {
		return nil, m.ProcessErr
	}
	if m.ProcessResult != nil {
		return m.ProcessResult, nil
	}
	return &services.ProcessResult{Status: services.StatusProcessed, Activity: &models.Activity{}}, nil
}

func (m *MockProgressionService) CreateUser(id, displayName, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	u := models.NewUser(id, displayName, email, 100)
	if m.Users == nil {
		m.Users = make(map[string]*models.User)
	}
	m.Users[id] = u
	return u, nil
}

func (m *MockProgressionService) LinkAccount(provider, login, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkCalls = append(m.LinkCalls, LinkCall{Provider: provider, Login: login, UserID: userID})
	return m.LinkErr
}

func (m *MockProgressionService) GetUser(id string) (*models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	return u, ok
}

func (m *MockProgressionService) Leaderboard() []*models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LeaderboardVal
}

func (m *MockProgressionService) Activities(userID string, limit int) []*models.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ActivitiesVal
}

func (m *MockProgressionService) History(userID string, limit int) []*models.XPHistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HistoryVal
}

func (m *MockProgressionService) Badges(userID string) []*models.UserBadge {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BadgesVal
}

func (m *MockProgressionService) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users)
}

func (m *MockProgressionService) ActivityCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ActivitiesVal)
}

func (m *MockProgressionService) EventsProcessed() int64 {
	return m.Processed
}

func (m *MockProgressionService) EventsSkipped() int64 {
	return m.Skipped
}

func (m *MockProgressionService) GetSnapshot() *models.Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Snapshot != nil {
		return m.Snapshot
	}
	return &models.Storage{
		Version:    models.StorageVersion,
		Users:      make(map[string]*models.User),
		Activities: make(map[string]*models.Activity),
		History:    make(map[string][]*models.XPHistoryEntry),
		Accounts:   []models.ConnectedAccount{},
	}
}

func (m *MockProgressionService) PutSnapshot(storage *models.Storage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, storage)
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and records calls.
type MockMetrics struct {
	mu                  sync.Mutex
	Requests            []RequestObservation
	CacheHits           int
	CacheMisses         int
	EventResults        map[string]int
	XPAwarded           int
	PersistenceDurCalls int
}

type RequestObservation struct {
	Endpoint string
	Status   int
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, RequestObservation{Endpoint: endpoint, Status: status})
}

func (m *MockMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) IncEventResult(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EventResults == nil {
		m.EventResults = make(map[string]int)
	}
	m.EventResults[status]++
}

func (m *MockMetrics) AddXPAwarded(xp int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.XPAwarded += xp
}

func (m *MockMetrics) ObservePersistenceDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceDurCalls++
}
