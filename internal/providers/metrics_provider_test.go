package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"chd/internal/models"
	"chd/internal/services"
	"chd/internal/structures"
)

// --- minimal mock for ProgressionServiceInterface ---

type metricsTestService struct{}

func (m *metricsTestService) ValidatePayload(_ string, _ map[string]any) error { return nil }
func (m *metricsTestService) ProcessEvent(_, _, _ string, _ map[string]any, _ time.Time) (*services.ProcessResult, error) {
	return nil, nil
}
func (m *metricsTestService) CreateUser(_, _, _ string) (*models.User, error)  { return nil, nil }
func (m *metricsTestService) LinkAccount(_, _, _ string) error                 { return nil }
func (m *metricsTestService) GetUser(_ string) (*models.User, bool)            { return nil, false }
func (m *metricsTestService) Leaderboard() []*models.User                      { return nil }
func (m *metricsTestService) Activities(_ string, _ int) []*models.Activity    { return nil }
func (m *metricsTestService) History(_ string, _ int) []*models.XPHistoryEntry { return nil }
func (m *metricsTestService) Badges(_ string) []*models.UserBadge              { return nil }
func (m *metricsTestService) UserCount() int                                   { return 3 }
func (m *metricsTestService) ActivityCount() int                               { return 7 }
func (m *metricsTestService) EventsProcessed() int64                           { return 0 }
func (m *metricsTestService) EventsSkipped() int64                             { return 0 }
func (m *metricsTestService) GetSnapshot() *models.Storage                     { return nil }
func (m *metricsTestService) PutSnapshot(_ *models.Storage)                    {}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf, &metricsTestService{})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncEventResult("processed")
	m.AddXPAwarded(120)
	m.ObservePersistenceDuration(time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestService{})
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf, &metricsTestService{})

	// These should not panic
	m.IncRequestsTotal("/leaderboard", 200)
	m.IncRequestsTotal("/leaderboard", 404)
	m.ObserveRequestDuration("/leaderboard", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncEventResult("processed")
	m.IncEventResult("skipped_duplicate")
	m.AddXPAwarded(370)
	m.AddXPAwarded(0)
	m.ObservePersistenceDuration(100 * time.Millisecond)
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{202, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
