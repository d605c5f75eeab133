package models

import "time"

// Canonical event types produced by the webhook normalizer.
const (
	EventPush              = "push"
	EventPullRequest       = "pull_request"
	EventPullRequestReview = "pull_request_review"
	EventIssue             = "issue"
	EventComment           = "comment"
	EventCreate            = "create"
)

// EventMetrics carries the numeric facts extracted from a provider payload.
// Absent fields stay zero so downstream equality checks see a stable shape.
type EventMetrics struct {
	Commits      int `json:"commits"`
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	ChangedFiles int `json:"changed_files"`
	Comments     int `json:"comments"`
}

// TotalChanges is additions plus deletions.
func (m EventMetrics) TotalChanges() int {
	return m.Additions + m.Deletions
}

// Event is the canonical shape every provider payload is normalized into.
// String fields default to "" rather than being omitted.
type Event struct {
	Provider  string       `json:"provider"`
	EventType string       `json:"event_type"`
	Action    string       `json:"action"`
	Repo      string       `json:"repo"`
	Sender    string       `json:"sender"`
	Ref       string       `json:"ref"`
	Metrics   EventMetrics `json:"metrics"`
	Timestamp time.Time    `json:"timestamp"`
}
