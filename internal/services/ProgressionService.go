package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"chd/internal/models"
	"chd/internal/progression"
	"chd/internal/structures"
	"chd/internal/webhook"
)

// Processing outcomes for one webhook delivery. Skips are not errors: the
// delivery is acknowledged and nothing is written.
const (
	StatusProcessed            = "processed"
	StatusSkippedUnsupported   = "skipped_unsupported"
	StatusSkippedUnclassified  = "skipped_unclassified"
	StatusSkippedUnknownSender = "skipped_unknown_sender"
	StatusSkippedInactiveUser  = "skipped_inactive_user"
	StatusSkippedDuplicate     = "skipped_duplicate"
)

// ProcessResult reports what one delivery did to the progression state.
type ProcessResult struct {
	Status    string           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	Activity  *models.Activity `json:"activity,omitempty"`
	XPAwarded int              `json:"xp_awarded"`
	NewLevel  int              `json:"new_level,omitempty"`
	NewStreak int              `json:"new_streak,omitempty"`
}

func skip(status, reason string) *ProcessResult {
	return &ProcessResult{Status: status, Reason: reason}
}

type ProgressionServiceInterface interface {
	ValidatePayload(provider string, payload map[string]any) error
	ProcessEvent(provider, eventHint, deliveryID string, payload map[string]any, now time.Time) (*ProcessResult, error)
	CreateUser(id, displayName, email string) (*models.User, error)
	LinkAccount(provider, login, userID string) error
	GetUser(id string) (*models.User, bool)
	Leaderboard() []*models.User
	Activities(userID string, limit int) []*models.Activity
	History(userID string, limit int) []*models.XPHistoryEntry
	Badges(userID string) []*models.UserBadge
	UserCount() int
	ActivityCount() int
	EventsProcessed() int64
	EventsSkipped() int64
	GetSnapshot() *models.Storage
	PutSnapshot(storage *models.Storage)
}

// ProgressionService runs the whole pipeline for one delivery: normalize,
// classify, resolve the sender, then apply XP/streak/level/badges to the
// user document in a single optimistic transaction. Stores are injected,
// never global.
type ProgressionService struct {
	conf       *structures.Config
	validator  *webhook.PayloadValidator
	calculator *progression.Calculator
	users      *models.UserStore
	activities *models.ActivityStore
	accounts   *models.AccountStore

	processed atomic.Int64
	skipped   atomic.Int64
}

func NewProgressionService(conf *structures.Config) (ProgressionServiceInterface, error) {
	validator, err := webhook.NewPayloadValidator()
	if err != nil {
		return nil, err
	}
	return &ProgressionService{
		conf:       conf,
		validator:  validator,
		calculator: progression.NewCalculator(conf),
		users:      models.NewUserStore(),
		activities: models.NewActivityStore(conf.Progression.HistoryWindow),
		accounts:   models.NewAccountStore(),
	}, nil
}

// ValidatePayload checks a decoded payload against the provider's schema.
// Exposed for the webhook controller, which turns a failure into HTTP 400.
func (ps *ProgressionService) ValidatePayload(provider string, payload map[string]any) error {
	return ps.validator.Validate(provider, payload)
}

func (ps *ProgressionService) ProcessEvent(provider, eventHint, deliveryID string, payload map[string]any, now time.Time) (*ProcessResult, error) {
	ev, ok := webhook.Normalize(provider, eventHint, payload, now)
	if !ok {
		ps.skipped.Inc()
		return skip(StatusSkippedUnsupported, fmt.Sprintf("no mapping for %s/%s", provider, eventHint)), nil
	}

	class, ok := progression.Classify(ev)
	if !ok {
		ps.skipped.Inc()
		return skip(StatusSkippedUnclassified, fmt.Sprintf("no rule for %s/%s", ev.EventType, ev.Action)), nil
	}

	userID, ok := ps.accounts.Resolve(ev.Provider, ev.Sender)
	if !ok {
		ps.skipped.Inc()
		return skip(StatusSkippedUnknownSender, fmt.Sprintf("sender %q not linked", ev.Sender)), nil
	}

	// Reserve the delivery id before touching the user so a concurrent
	// redelivery of the same event cannot double-award.
	if !ps.activities.ClaimEventKey(deliveryID) {
		ps.skipped.Inc()
		return skip(StatusSkippedDuplicate, "event already processed"), nil
	}

	today := models.DayOrdinal(ev.Timestamp)
	var (
		calc     progression.CalcResult
		inactive bool
	)

	updated, err := ps.users.Update(userID, func(u *models.User) error {
		if !u.Active {
			inactive = true
			return nil
		}

		calc = ps.calculator.Calculate(class.Type, class.Metrics, u.Streak(class.StreakCategory), today)

		u.XP += calc.TotalXP
		state := progression.Advance(progression.LevelState{
			Level:          u.Level,
			CurrentLevelXP: u.CurrentLevelXP,
			XPToNextLevel:  u.XPToNextLevel,
		}, calc.TotalXP, ps.conf.Progression.Curve)
		u.Level = state.Level
		u.CurrentLevelXP = state.CurrentLevelXP
		u.XPToNextLevel = state.XPToNextLevel

		u.SetStreak(class.StreakCategory, models.StreakState{
			Current: calc.NewStreak,
			Best:    calc.NewBest,
			LastDay: today,
		})
		u.ActiveDays.Mark(today)
		bumpCounters(u, class.Type, class.Metrics)
		evaluateBadges(u, class.StreakCategory, ev.Timestamp)
		return nil
	})
	if err != nil {
		ps.activities.ReleaseEventKey(deliveryID)
		ps.skipped.Inc()
		return nil, fmt.Errorf("apply event %s: %w", deliveryID, err)
	}
	if inactive {
		ps.activities.ReleaseEventKey(deliveryID)
		ps.skipped.Inc()
		return skip(StatusSkippedInactiveUser, fmt.Sprintf("user %s is inactive", userID)), nil
	}

	activity := &models.Activity{
		ID:          uuid.NewString(),
		EventKey:    deliveryID,
		UserID:      userID,
		Type:        class.Type,
		Provider:    ev.Provider,
		Description: class.Description,
		Metrics:     class.Metrics,
		Breakdown:   calc.Breakdown,
		StreakDay:   calc.NewStreak,
		Timestamp:   ev.Timestamp,
		Result: &models.ProcessingResult{
			Status:      StatusProcessed,
			XPAwarded:   calc.TotalXP,
			Level:       updated.Level,
			StreakDay:   calc.NewStreak,
			ProcessedAt: now,
		},
	}
	history := &models.XPHistoryEntry{
		ID:         uuid.NewString(),
		UserID:     userID,
		ActivityID: activity.ID,
		XPChange:   calc.TotalXP,
		TotalXP:    updated.XP,
		Level:      updated.Level,
		Breakdown:  calc.Breakdown,
		CreatedAt:  now,
	}
	if err := ps.activities.Insert(activity, history); err != nil {
		return nil, fmt.Errorf("record activity %s: %w", deliveryID, err)
	}

	ps.processed.Inc()
	return &ProcessResult{
		Status:    StatusProcessed,
		Activity:  activity,
		XPAwarded: calc.TotalXP,
		NewLevel:  updated.Level,
		NewStreak: calc.NewStreak,
	}, nil
}

func bumpCounters(u *models.User, activityType string, metrics models.EventMetrics) {
	switch activityType {
	case models.ActivityPush:
		commits := metrics.Commits
		if commits == 0 {
			commits = 1
		}
		u.Counters["commits"] += commits
	case models.ActivityPullRequestOpened, models.ActivityPullRequestMerged:
		u.Counters["pull_requests"]++
	case models.ActivityPullRequestReviewed:
		u.Counters["reviews"]++
	case models.ActivityIssueOpened, models.ActivityIssueClosed:
		u.Counters["issues"]++
	case models.ActivityCommentCreated:
		u.Counters["comments"]++
	}
}

func (ps *ProgressionService) CreateUser(id, displayName, email string) (*models.User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	u := models.NewUser(id, displayName, email, progression.Threshold(1, ps.conf.Progression.Curve))
	if err := ps.users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (ps *ProgressionService) LinkAccount(provider, login, userID string) error {
	if !ps.users.Has(userID) {
		return models.ErrUserNotFound
	}
	ps.accounts.Link(provider, login, userID)
	return nil
}

func (ps *ProgressionService) GetUser(id string) (*models.User, bool) {
	return ps.users.Get(id)
}

func (ps *ProgressionService) Leaderboard() []*models.User {
	return ps.users.TopByXP(ps.conf.Progression.LeaderboardSize)
}

func (ps *ProgressionService) Activities(userID string, limit int) []*models.Activity {
	return ps.activities.ByUser(userID, limit)
}

func (ps *ProgressionService) History(userID string, limit int) []*models.XPHistoryEntry {
	return ps.activities.HistoryByUser(userID, limit)
}

func (ps *ProgressionService) Badges(userID string) []*models.UserBadge {
	u, ok := ps.users.Get(userID)
	if !ok {
		return nil
	}
	badges := make([]*models.UserBadge, 0, len(u.Badges))
	for _, b := range u.Badges {
		badges = append(badges, b)
	}
	sort.Slice(badges, func(i, j int) bool {
		if !badges[i].EarnedAt.Equal(badges[j].EarnedAt) {
			return badges[i].EarnedAt.Before(badges[j].EarnedAt)
		}
		return badges[i].BadgeID < badges[j].BadgeID
	})
	return badges
}

func (ps *ProgressionService) UserCount() int {
	return ps.users.Len()
}

func (ps *ProgressionService) ActivityCount() int {
	return ps.activities.Len()
}

func (ps *ProgressionService) EventsProcessed() int64 {
	return ps.processed.Load()
}

func (ps *ProgressionService) EventsSkipped() int64 {
	return ps.skipped.Load()
}

func (ps *ProgressionService) GetSnapshot() *models.Storage {
	activities, history := ps.activities.GetData()
	return &models.Storage{
		Version:    models.StorageVersion,
		Users:      ps.users.GetData(),
		Activities: activities,
		History:    history,
		Accounts:   ps.accounts.GetData(),
	}
}

func (ps *ProgressionService) PutSnapshot(storage *models.Storage) {
	if storage == nil {
		return
	}
	ps.users.PutData(storage.Users)
	ps.activities.PutData(storage.Activities, storage.History)
	ps.accounts.PutData(storage.Accounts)
}
