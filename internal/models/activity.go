package models

import "time"

// Activity types assigned by the classifier.
const (
	ActivityPush                = "push"
	ActivityPullRequestOpened   = "pull_request_opened"
	ActivityPullRequestMerged   = "pull_request_merged"
	ActivityPullRequestReviewed = "pull_request_reviewed"
	ActivityIssueOpened         = "issue_opened"
	ActivityIssueClosed         = "issue_closed"
	ActivityCommentCreated      = "comment_created"
	ActivityBranchCreated       = "branch_created"
	ActivityTagCreated          = "tag_created"
)

// XPLineItem is one row of an XP breakdown, ordered: base first, metric
// bonuses next, streak milestone last.
type XPLineItem struct {
	Description string `json:"description"`
	XP          int    `json:"xp"`
}

// ProcessingResult is attached to an activity once the pipeline has applied
// it. It is the only mutation an activity ever receives.
type ProcessingResult struct {
	Status      string    `json:"status"`
	XPAwarded   int       `json:"xp_awarded"`
	Level       int       `json:"level"`
	StreakDay   int       `json:"streak_day"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Activity is the immutable record of one classified event. EventKey is the
// externally-sourced delivery id used for idempotent ingestion.
type Activity struct {
	ID          string            `json:"id"`
	EventKey    string            `json:"event_key"`
	UserID      string            `json:"user_id"`
	Type        string            `json:"type"`
	Provider    string            `json:"provider"`
	Description string            `json:"description"`
	Metrics     EventMetrics      `json:"metrics"`
	Breakdown   []XPLineItem      `json:"breakdown"`
	StreakDay   int               `json:"streak_day"`
	Timestamp   time.Time         `json:"timestamp"`
	Result      *ProcessingResult `json:"processing_result,omitempty"`
}

// XPHistoryEntry is one append-only ledger row. For any user, the sum of
// XPChange over all entries equals the user's cumulative XP.
type XPHistoryEntry struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	ActivityID string       `json:"activity_id"`
	XPChange   int          `json:"xp_change"`
	TotalXP    int          `json:"total_xp"`
	Level      int          `json:"level"`
	Breakdown  []XPLineItem `json:"breakdown"`
	CreatedAt  time.Time    `json:"created_at"`
}

func (a *Activity) Clone() *Activity {
	c := *a
	c.Breakdown = append([]XPLineItem(nil), a.Breakdown...)
	if a.Result != nil {
		r := *a.Result
		c.Result = &r
	}
	return &c
}

func (e *XPHistoryEntry) Clone() *XPHistoryEntry {
	c := *e
	c.Breakdown = append([]XPLineItem(nil), e.Breakdown...)
	return &c
}
