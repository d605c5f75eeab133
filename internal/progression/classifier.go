package progression

import (
	"fmt"

	"chd/internal/models"
)

// ActivityUnclassified marks an event no rule matched. The pipeline treats
// it as "skip": no XP, no activity record.
const ActivityUnclassified = ""

// Classification is the classifier's verdict for one canonical event.
type Classification struct {
	Type           string
	StreakCategory string
	Description    string
	Metrics        models.EventMetrics
}

type classifierRule struct {
	eventType string
	actions   map[string]struct{}
	activity  string
	category  string
	describe  func(models.Event) string
}

func (r classifierRule) matches(ev models.Event) bool {
	if ev.EventType != r.eventType {
		return false
	}
	if len(r.actions) == 0 {
		return true
	}
	_, ok := r.actions[ev.Action]
	return ok
}

func actions(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// classifierRules is evaluated in order, first match wins. Most specific
// (event type + action) rules come before the action-less push rule.
var classifierRules = []classifierRule{
	{
		eventType: models.EventPullRequestReview,
		actions:   actions("submitted"),
		activity:  models.ActivityPullRequestReviewed,
		category:  models.StreakReview,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Reviewed a pull request in %s", ev.Repo)
		},
	},
	{
		eventType: models.EventPullRequest,
		actions:   actions("merged"),
		activity:  models.ActivityPullRequestMerged,
		category:  models.StreakCommit,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Merged a pull request in %s", ev.Repo)
		},
	},
	{
		eventType: models.EventPullRequest,
		actions:   actions("opened", "reopened"),
		activity:  models.ActivityPullRequestOpened,
		category:  models.StreakCommit,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Opened a pull request in %s", ev.Repo)
		},
	},
	{
		eventType: models.EventPush,
		activity:  models.ActivityPush,
		category:  models.StreakCommit,
		describe: func(ev models.Event) string {
			if ev.Metrics.Commits == 1 {
				return fmt.Sprintf("Pushed 1 commit to %s", ev.Repo)
			}
			return fmt.Sprintf("Pushed %d commits to %s", ev.Metrics.Commits, ev.Repo)
		},
	},
	{
		eventType: models.EventIssue,
		actions:   actions("opened"),
		activity:  models.ActivityIssueOpened,
		category:  models.StreakCollaboration,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Opened an issue in %s", ev.Repo)
		},
	},
	{
		eventType: models.EventIssue,
		actions:   actions("closed"),
		activity:  models.ActivityIssueClosed,
		category:  models.StreakCollaboration,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Closed an issue in %s", ev.Repo)
		},
	},
	{
		eventType: models.EventComment,
		actions:   actions("created"),
		activity:  models.ActivityCommentCreated,
		category:  models.StreakCollaboration,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Commented in %s", ev.Repo)
		},
	},
	{
		eventType: models.EventCreate,
		actions:   actions("branch"),
		activity:  models.ActivityBranchCreated,
		category:  models.StreakCommit,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Created branch %s in %s", ev.Ref, ev.Repo)
		},
	},
	{
		eventType: models.EventCreate,
		actions:   actions("tag"),
		activity:  models.ActivityTagCreated,
		category:  models.StreakCommit,
		describe: func(ev models.Event) string {
			return fmt.Sprintf("Created tag %s in %s", ev.Ref, ev.Repo)
		},
	},
}

// Classify determines which activity an event represents. The rule order is
// fixed and deterministic; no match yields ok=false.
func Classify(ev models.Event) (Classification, bool) {
	for _, rule := range classifierRules {
		if rule.matches(ev) {
			return Classification{
				Type:           rule.activity,
				StreakCategory: rule.category,
				Description:    rule.describe(ev),
				Metrics:        ev.Metrics,
			}, true
		}
	}
	return Classification{}, false
}

// StreakCategoryFor maps an activity type to its streak category.
func StreakCategoryFor(activityType string) string {
	for _, rule := range classifierRules {
		if rule.activity == activityType {
			return rule.category
		}
	}
	return models.StreakCollaboration
}
