package services

import (
	"time"

	"chd/internal/models"
)

// Badge catalog. Criteria are checked inside the user transaction, right
// after XP/streak/level have been applied, so badge state commits atomically
// with the rest of the document.
var BadgeCatalog = []models.Badge{
	{ID: "level_5", Name: "Seasoned", Description: "Reach level 5"},
	{ID: "level_10", Name: "Veteran", Description: "Reach level 10"},
	{ID: "level_25", Name: "Legend", Description: "Reach level 25"},
	{ID: "streak_7", Name: "One Week Strong", Description: "Keep a 7-day commit streak"},
	{ID: "streak_30", Name: "Unstoppable", Description: "Keep a 30-day commit streak"},
	{ID: "commits_100", Name: "Centurion", Description: "Push 100 commits"},
	{ID: "active_days_30", Name: "Regular", Description: "Be active on 30 distinct days"},
}

// evaluateBadges awards any badge whose criterion the user now meets.
// Awarding is idempotent: an already-held badge is a no-op.
func evaluateBadges(u *models.User, streakCategory string, at time.Time) {
	if u.Level >= 5 {
		u.Award("level_5", at)
	}
	if u.Level >= 10 {
		u.Award("level_10", at)
	}
	if u.Level >= 25 {
		u.Award("level_25", at)
	}

	if streakCategory == models.StreakCommit {
		streak := u.Streak(models.StreakCommit)
		if streak.Current >= 7 {
			u.Award("streak_7", at)
		}
		if streak.Current >= 30 {
			u.Award("streak_30", at)
		}
	}

	if u.Counters["commits"] >= 100 {
		u.Award("commits_100", at)
	}
	if u.ActiveDays.Count() >= 30 {
		u.Award("active_days_30", at)
	}
}
