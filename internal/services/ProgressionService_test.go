package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chd/internal/models"
	"chd/internal/structures"
	"chd/internal/webhook"
)

func newTestService(t *testing.T) ProgressionServiceInterface {
	t.Helper()
	conf := &structures.Config{Progression: structures.DefaultProgression()}
	svc, err := NewProgressionService(conf)
	require.NoError(t, err)
	return svc
}

// newLinkedService returns a service with one user linked to github/octocat.
func newLinkedService(t *testing.T) ProgressionServiceInterface {
	t.Helper()
	svc := newTestService(t)
	_, err := svc.CreateUser("alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.LinkAccount(webhook.ProviderGitHub, "octocat", "alice"))
	return svc
}

func pushPayload(commits int) map[string]any {
	list := make([]any, commits)
	for i := range list {
		list[i] = map[string]any{}
	}
	return map[string]any{
		"ref":        "refs/heads/main",
		"repository": map[string]any{"full_name": "acme/api"},
		"sender":     map[string]any{"login": "octocat"},
		"commits":    list,
	}
}

func TestProcessEvent_Processed(t *testing.T) {
	svc := newLinkedService(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	res, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(3), now)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, res.Status)
	// base 120 + multi-commit 250 + streak day 1 milestone 50
	assert.Equal(t, 420, res.XPAwarded)
	assert.Equal(t, 1, res.NewStreak)
	require.NotNil(t, res.Activity)
	assert.Equal(t, models.ActivityPush, res.Activity.Type)

	u, ok := svc.GetUser("alice")
	require.True(t, ok)
	assert.Equal(t, 420, u.XP)
	assert.Equal(t, 3, u.Counters["commits"])
	assert.Equal(t, 1, u.ActiveDays.Count())
	assert.EqualValues(t, 1, svc.EventsProcessed())
}

func TestProcessEvent_UnsupportedEvent(t *testing.T) {
	svc := newLinkedService(t)

	res, err := svc.ProcessEvent(webhook.ProviderGitHub, "watch", "delivery-1", map[string]any{}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedUnsupported, res.Status)
	assert.Equal(t, 0, res.XPAwarded)
	assert.EqualValues(t, 1, svc.EventsSkipped())
	assert.Equal(t, 0, svc.ActivityCount())
}

func TestProcessEvent_UnclassifiedAction(t *testing.T) {
	svc := newLinkedService(t)
	payload := map[string]any{
		"action":       "labeled",
		"repository":   map[string]any{"full_name": "acme/api"},
		"sender":       map[string]any{"login": "octocat"},
		"pull_request": map[string]any{},
	}

	res, err := svc.ProcessEvent(webhook.ProviderGitHub, "pull_request", "delivery-1", payload, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedUnclassified, res.Status)
}

func TestProcessEvent_UnknownSender(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(1), time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedUnknownSender, res.Status)
}

func TestProcessEvent_DuplicateDelivery(t *testing.T) {
	svc := newLinkedService(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	first, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(1), now)
	require.NoError(t, err)
	require.Equal(t, StatusProcessed, first.Status)

	second, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(1), now)
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedDuplicate, second.Status)

	u, _ := svc.GetUser("alice")
	assert.Equal(t, first.XPAwarded, u.XP)
	assert.Equal(t, 1, svc.ActivityCount())
}

func TestProcessEvent_ConcurrentSameDelivery(t *testing.T) {
	svc := newLinkedService(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	const attempts = 10
	var wg sync.WaitGroup
	processed := make(chan *ProcessResult, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(1), now)
			require.NoError(t, err)
			processed <- res
		}()
	}
	wg.Wait()
	close(processed)

	wins := 0
	for res := range processed {
		if res.Status == StatusProcessed {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, svc.ActivityCount())
}

func TestProcessEvent_InactiveUser(t *testing.T) {
	svc := newLinkedService(t)
	u, _ := svc.GetUser("alice")
	u.Active = false
	svc.PutSnapshot(&models.Storage{
		Version: models.StorageVersion,
		Users:   map[string]*models.User{"alice": u},
		Accounts: []models.ConnectedAccount{
			{Provider: webhook.ProviderGitHub, Login: "octocat", UserID: "alice"},
		},
	})

	res, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(1), time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedInactiveUser, res.Status)

	got, _ := svc.GetUser("alice")
	assert.Equal(t, 0, got.XP)

	// The claim was released, so a retry after reactivation works.
	got.Active = true
	svc.PutSnapshot(&models.Storage{
		Version: models.StorageVersion,
		Users:   map[string]*models.User{"alice": got},
		Accounts: []models.ConnectedAccount{
			{Provider: webhook.ProviderGitHub, Login: "octocat", UserID: "alice"},
		},
	})
	res, err = svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(1), time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, res.Status)
}

func TestProcessEvent_StreakAcrossDays(t *testing.T) {
	svc := newLinkedService(t)
	day1 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("delivery-%d", i)
		res, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", key, pushPayload(1), day1.AddDate(0, 0, i))
		require.NoError(t, err)
		assert.Equal(t, i+1, res.NewStreak)
	}

	u, _ := svc.GetUser("alice")
	streak := u.Streak(models.StreakCommit)
	assert.Equal(t, 3, streak.Current)
	assert.Equal(t, 3, streak.Best)
	assert.Equal(t, 3, u.ActiveDays.Count())
}

func TestProcessEvent_LedgerMatchesUserXP(t *testing.T) {
	svc := newLinkedService(t)
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	payloads := []struct {
		hint    string
		payload map[string]any
	}{
		{"push", pushPayload(2)},
		{"pull_request", map[string]any{
			"action":     "opened",
			"repository": map[string]any{"full_name": "acme/api"},
			"sender":     map[string]any{"login": "octocat"},
			"pull_request": map[string]any{
				"additions":     float64(100),
				"deletions":     float64(60),
				"changed_files": float64(6),
			},
		}},
		{"issues", map[string]any{
			"action":     "opened",
			"repository": map[string]any{"full_name": "acme/api"},
			"sender":     map[string]any{"login": "octocat"},
		}},
	}

	for i, p := range payloads {
		_, err := svc.ProcessEvent(webhook.ProviderGitHub, p.hint, fmt.Sprintf("d-%d", i), p.payload, day)
		require.NoError(t, err)
	}

	u, _ := svc.GetUser("alice")
	history := svc.History("alice", 0)
	sum := 0
	for _, e := range history {
		sum += e.XPChange
	}
	assert.Equal(t, u.XP, sum)
	// Newest entry carries the cumulative total.
	assert.Equal(t, u.XP, history[0].TotalXP)
}

func TestProcessEvent_LevelUp(t *testing.T) {
	conf := &structures.Config{Progression: structures.DefaultProgression()}
	conf.Progression.Curve = structures.LevelCurve{BaseXPPerLevel: 100, Multiplier: 1.1}
	svc, err := NewProgressionService(conf)
	require.NoError(t, err)
	_, err = svc.CreateUser("alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.LinkAccount(webhook.ProviderGitHub, "octocat", "alice"))

	// 420 XP against a 100/110 curve clears several levels at once.
	res, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(3),
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, res.Status)
	assert.Greater(t, res.NewLevel, 1)

	u, _ := svc.GetUser("alice")
	assert.Equal(t, res.NewLevel, u.Level)
	assert.Less(t, u.CurrentLevelXP, u.XPToNextLevel)
}

func TestProcessEvent_BadgesEarnedOnce(t *testing.T) {
	svc := newLinkedService(t)
	day1 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// 7 consecutive days of pushes earns streak_7 exactly once.
	for i := 0; i < 8; i++ {
		_, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", fmt.Sprintf("d-%d", i), pushPayload(1), day1.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	badges := svc.Badges("alice")
	found := 0
	for _, b := range badges {
		if b.BadgeID == "streak_7" {
			found++
		}
	}
	assert.Equal(t, 1, found)
}

func TestCreateUser_Duplicate(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateUser("alice", "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = svc.CreateUser("alice", "Alice Again", "alice2@example.com")
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestCreateUser_GeneratesID(t *testing.T) {
	svc := newTestService(t)
	u, err := svc.CreateUser("", "Anon", "anon@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 1000, u.XPToNextLevel)
}

func TestLinkAccount_UnknownUser(t *testing.T) {
	svc := newTestService(t)
	err := svc.LinkAccount(webhook.ProviderGitHub, "octocat", "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLeaderboard_Order(t *testing.T) {
	svc := newTestService(t)
	for _, id := range []string{"alice", "bob"} {
		_, err := svc.CreateUser(id, id, id+"@example.com")
		require.NoError(t, err)
		require.NoError(t, svc.LinkAccount(webhook.ProviderGitHub, id, id))
	}

	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := pushPayload(3)
	payload["sender"] = map[string]any{"login": "bob"}
	_, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "d-1", payload, day)
	require.NoError(t, err)

	board := svc.Leaderboard()
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].ID)
	assert.Equal(t, "alice", board[1].ID)
}

func TestSnapshotRoundTrip(t *testing.T) {
	svc := newLinkedService(t)
	day := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	_, err := svc.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(2), day)
	require.NoError(t, err)

	snapshot := svc.GetSnapshot()
	assert.Equal(t, models.StorageVersion, snapshot.Version)

	restored := newTestService(t)
	restored.PutSnapshot(snapshot)

	u, ok := restored.GetUser("alice")
	require.True(t, ok)
	orig, _ := svc.GetUser("alice")
	assert.Equal(t, orig.XP, u.XP)
	assert.Equal(t, orig.Level, u.Level)
	assert.Equal(t, 1, restored.ActivityCount())

	// Dedup survives the restore.
	res, err := restored.ProcessEvent(webhook.ProviderGitHub, "push", "delivery-1", pushPayload(2), day)
	require.NoError(t, err)
	assert.Equal(t, StatusSkippedDuplicate, res.Status)
}

func TestValidatePayload(t *testing.T) {
	svc := newTestService(t)
	assert.Error(t, svc.ValidatePayload(webhook.ProviderGitHub, map[string]any{}))
	assert.NoError(t, svc.ValidatePayload(webhook.ProviderGitHub, pushPayload(1)))
}
