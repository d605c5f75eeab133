package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chd/internal/models"
	"chd/internal/testutil"
)

func TestHealth(t *testing.T) {
	svc := &testutil.MockProgressionService{
		Users:     map[string]*models.User{"alice": {ID: "alice"}},
		Processed: 12,
		Skipped:   3,
	}
	hc := NewHealthController(svc)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(1), resp["users"])
	assert.Equal(t, float64(12), resp["events_processed"])
	assert.Equal(t, float64(3), resp["events_skipped"])
	assert.NotEmpty(t, resp["uptime"])
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	hc := NewHealthController(&testutil.MockProgressionService{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h0m5s", formatDuration(5*time.Second))
	assert.Equal(t, "0h2m30s", formatDuration(150*time.Second))
	assert.Equal(t, "3h0m0s", formatDuration(3*time.Hour))
	assert.Equal(t, "25h1m1s", formatDuration(25*time.Hour+time.Minute+time.Second))
}
