package models

import "time"

// Streak categories. Each activity type maps to exactly one category.
const (
	StreakCommit        = "commit"
	StreakReview        = "review"
	StreakCollaboration = "collaboration"
)

// StreakState tracks one streak category for a user. LastDay is a UTC day
// ordinal; zero means no action recorded yet.
type StreakState struct {
	Current int `json:"current"`
	Best    int `json:"best"`
	LastDay int `json:"last_day"`
}

// UserBadge is an earned-once record. Awarding the same badge twice is a no-op.
type UserBadge struct {
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// User is the progression document for one account. Mutated only inside
// UserStore.Update; everything handed out by the store is a deep copy.
type User struct {
	ID             string                  `json:"id"`
	DisplayName    string                  `json:"display_name"`
	Email          string                  `json:"email"`
	XP             int                     `json:"xp"`
	Level          int                     `json:"level"`
	CurrentLevelXP int                     `json:"current_level_xp"`
	XPToNextLevel  int                     `json:"xp_to_next_level"`
	Streaks        map[string]*StreakState `json:"streaks"`
	Counters       map[string]int          `json:"counters"`
	ActiveDays     *ActiveDays             `json:"active_days"`
	Badges         map[string]*UserBadge   `json:"badges"`
	Active         bool                    `json:"active"`
	CreatedAt      time.Time               `json:"created_at"`
}

// NewUser creates an active user at level 1 with the given first threshold.
func NewUser(id, displayName, email string, xpToNext int) *User {
	return &User{
		ID:             id,
		DisplayName:    displayName,
		Email:          email,
		Level:          1,
		XPToNextLevel:  xpToNext,
		Streaks:        make(map[string]*StreakState),
		Counters:       make(map[string]int),
		ActiveDays:     NewActiveDays(),
		Badges:         make(map[string]*UserBadge),
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}
}

// Streak returns the streak state for a category, zero-valued if none yet.
func (u *User) Streak(category string) StreakState {
	if s, ok := u.Streaks[category]; ok {
		return *s
	}
	return StreakState{}
}

func (u *User) SetStreak(category string, s StreakState) {
	u.Streaks[category] = &StreakState{Current: s.Current, Best: s.Best, LastDay: s.LastDay}
}

func (u *User) HasBadge(badgeID string) bool {
	_, ok := u.Badges[badgeID]
	return ok
}

// Award records a badge if not already held. Returns true when newly earned.
func (u *User) Award(badgeID string, at time.Time) bool {
	if u.HasBadge(badgeID) {
		return false
	}
	u.Badges[badgeID] = &UserBadge{BadgeID: badgeID, EarnedAt: at}
	return true
}

// Clone deep-copies the document, including streaks, counters, badges and
// the active-day bitmap.
func (u *User) Clone() *User {
	c := *u
	c.Streaks = make(map[string]*StreakState, len(u.Streaks))
	for k, v := range u.Streaks {
		s := *v
		c.Streaks[k] = &s
	}
	c.Counters = make(map[string]int, len(u.Counters))
	for k, v := range u.Counters {
		c.Counters[k] = v
	}
	c.Badges = make(map[string]*UserBadge, len(u.Badges))
	for k, v := range u.Badges {
		b := *v
		c.Badges[k] = &b
	}
	if u.ActiveDays != nil {
		c.ActiveDays = u.ActiveDays.Clone()
	} else {
		c.ActiveDays = NewActiveDays()
	}
	return &c
}
