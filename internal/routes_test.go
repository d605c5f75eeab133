package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chd/internal/controllers"
	"chd/internal/structures"
	"chd/internal/testutil"
)

func TestInitRoutes(t *testing.T) {
	svc := &testutil.MockProgressionService{}
	logger := &testutil.MockLogger{}
	cache := testutil.NewMockCache()
	metrics := &testutil.MockMetrics{}

	api := controllers.NewApiController(logger, svc, cache)
	hook := controllers.NewWebhookController(logger, svc, metrics)
	conf := &structures.Config{}

	router := InitRoutes(api, hook, conf)
	routes := router.GetRoutes()

	urls := make(map[string]bool, len(routes))
	for _, r := range routes {
		require.NotNil(t, r.Handler, r.Url)
		urls[r.Url] = true
	}

	for _, expected := range []string{
		"/webhook",
		"/leaderboard",
		"/user",
		"/activities",
		"/history",
		"/badges",
		"/users",
		"/accounts",
	} {
		assert.True(t, urls[expected], expected)
	}
	assert.Len(t, routes, 8)
}
