package progression

import (
	"fmt"

	"chd/internal/models"
	"chd/internal/structures"
)

// CalcResult is one XP award: the total, the ordered breakdown that produced
// it, and the streak state after this action.
type CalcResult struct {
	TotalXP   int
	Breakdown []models.XPLineItem
	NewStreak int
	NewBest   int
}

// Calculator computes XP awards from the static rules table. It is pure:
// the acting day comes from the caller, never from the wall clock.
type Calculator struct {
	rules *structures.ProgressionConfig
}

func NewCalculator(conf *structures.Config) *Calculator {
	return &Calculator{rules: &conf.Progression}
}

// Calculate computes base XP, metric bonuses and the streak transition for
// one activity. today is a UTC day ordinal (models.DayOrdinal).
//
// Streak rules: an action on the same day as the last one leaves the streak
// untouched and earns no streak bonus; an action the day after increments
// it; anything else resets it to 1. Milestone bonuses are exact-match on the
// resulting streak day; days beyond the highest configured milestone earn
// no further bonus.
func (c *Calculator) Calculate(activityType string, metrics models.EventMetrics, streak models.StreakState, today int) CalcResult {
	base := c.rules.BaseXP[activityType]
	breakdown := []models.XPLineItem{
		{Description: fmt.Sprintf("Base XP (%s)", activityType), XP: base},
	}
	total := base

	for _, bonus := range c.rules.Bonuses[activityType] {
		if metricValue(metrics, bonus.Metric) >= bonus.AtLeast {
			breakdown = append(breakdown, models.XPLineItem{Description: bonus.Description, XP: bonus.XP})
			total += bonus.XP
		}
	}

	newStreak := streak.Current
	sameDay := streak.LastDay == today && streak.LastDay != 0
	switch {
	case sameDay:
		// Already counted today, no change and no bonus.
	case streak.LastDay == today-1 && streak.LastDay != 0:
		newStreak = streak.Current + 1
	default:
		newStreak = 1
	}

	if !sameDay {
		if bonus, ok := c.rules.StreakMilestones[newStreak]; ok {
			breakdown = append(breakdown, models.XPLineItem{
				Description: fmt.Sprintf("Streak day %d", newStreak),
				XP:          bonus,
			})
			total += bonus
		}
	}

	newBest := streak.Best
	if newStreak > newBest {
		newBest = newStreak
	}

	return CalcResult{
		TotalXP:   total,
		Breakdown: breakdown,
		NewStreak: newStreak,
		NewBest:   newBest,
	}
}

func metricValue(m models.EventMetrics, name string) int {
	switch name {
	case "commits":
		return m.Commits
	case "changedFiles":
		return m.ChangedFiles
	case "totalChanges":
		return m.TotalChanges()
	case "comments":
		return m.Comments
	}
	return 0
}
