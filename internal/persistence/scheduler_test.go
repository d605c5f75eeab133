package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chd/internal/models"
	"chd/internal/services"
	"chd/internal/structures"
	"chd/internal/testutil"
	"chd/internal/webhook"
)

func testConfig(filePath string) *structures.Config {
	conf := &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: 1,
		},
		Progression: structures.DefaultProgression(),
	}
	conf.Progression.GaugeInterval = 1
	return conf
}

func newSchedulerService(t *testing.T) services.ProgressionServiceInterface {
	t.Helper()
	svc, err := services.NewProgressionService(testConfig(""))
	require.NoError(t, err)
	return svc
}

func TestScheduler_Restore_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restore.dat")

	alice := models.NewUser("alice", "Alice", "alice@example.com", 1000)
	alice.XP = 420
	storage := models.Storage{
		Version: models.StorageVersion,
		Users:   map[string]*models.User{"alice": alice},
		Accounts: []models.ConnectedAccount{
			{Provider: webhook.ProviderGitHub, Login: "octocat", UserID: "alice"},
		},
	}
	jsonData, _ := json.Marshal(storage)
	require.NoError(t, os.WriteFile(path, jsonData, 0644))

	svc := newSchedulerService(t)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, logger)
	conf := testConfig(path)

	s := NewScheduler(conf, logger, svc, fm, &testutil.MockMetrics{})
	require.NoError(t, s.Restore())

	u, ok := svc.GetUser("alice")
	require.True(t, ok)
	assert.Equal(t, 420, u.XP)
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	svc := newSchedulerService(t)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, logger)
	conf := testConfig("/nonexistent/file.dat")

	s := NewScheduler(conf, logger, svc, fm, &testutil.MockMetrics{})
	assert.NoError(t, s.Restore())
}

func TestScheduler_Restore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	svc := newSchedulerService(t)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, logger)
	conf := testConfig(path)

	s := NewScheduler(conf, logger, svc, fm, &testutil.MockMetrics{})
	assert.Error(t, s.Restore())
}

func TestScheduler_Persist_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.dat")

	svc := newSchedulerService(t)
	_, err := svc.CreateUser("alice", "Alice", "alice@example.com")
	require.NoError(t, err)

	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, logger)
	conf := testConfig(path)

	s := NewScheduler(conf, logger, svc, fm, &testutil.MockMetrics{})
	require.NoError(t, s.Persist())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestScheduler_Persist_WriteError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func(b []byte) ([]byte, error) {
			return nil, errors.New("compress error")
		},
	}
	svc := newSchedulerService(t)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(comp, svc, logger)
	conf := testConfig("/tmp/test.dat")

	s := NewScheduler(conf, logger, svc, fm, &testutil.MockMetrics{})
	err := s.Persist()
	assert.Error(t, err)
}

func TestScheduler_StopNilCron(t *testing.T) {
	svc := newSchedulerService(t)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, logger)
	conf := testConfig("/tmp/test.dat")

	s := NewScheduler(conf, logger, svc, fm, &testutil.MockMetrics{})
	// Should not panic with nil cron
	s.Stop()
}

func TestScheduler_InitAndStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lifecycle.dat")

	svc := newSchedulerService(t)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, logger)
	conf := testConfig(path)

	s := NewScheduler(conf, logger, svc, fm, &testutil.MockMetrics{})
	s.Init()
	// Give the cron a moment to start
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
