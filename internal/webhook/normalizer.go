package webhook

import (
	"time"

	"github.com/spf13/cast"

	"chd/internal/models"
)

// Normalize maps a provider payload to the canonical event shape. eventHint
// is the provider's own event designator (X-GitHub-Event, X-Event-Key, or
// empty for Azure, which carries eventType in the body). The second return
// is false when the provider/event combination has no mapping; callers skip
// such deliveries silently. Never panics on well-formed payloads: absent
// numerics become 0 and absent strings become "".
func Normalize(provider, eventHint string, payload map[string]any, fallback time.Time) (models.Event, bool) {
	switch provider {
	case ProviderGitHub:
		return normalizeGitHub(eventHint, payload, fallback)
	case ProviderBitbucket:
		return normalizeBitbucket(eventHint, payload, fallback)
	case ProviderAzure:
		return normalizeAzure(payload, fallback)
	}
	return models.Event{}, false
}

func normalizeGitHub(eventHint string, payload map[string]any, fallback time.Time) (models.Event, bool) {
	ev := models.Event{
		Provider:  ProviderGitHub,
		Repo:      getString(getMap(payload, "repository"), "full_name"),
		Sender:    getString(getMap(payload, "sender"), "login"),
		Timestamp: fallback,
	}

	switch eventHint {
	case "push":
		ev.EventType = models.EventPush
		ev.Ref = getString(payload, "ref")
		ev.Metrics.Commits = len(getSlice(payload, "commits"))
		ev.Timestamp = parseTime(getString(getMap(payload, "head_commit"), "timestamp"), fallback)

	case "pull_request":
		ev.EventType = models.EventPullRequest
		ev.Action = getString(payload, "action")
		pr := getMap(payload, "pull_request")
		if ev.Action == "closed" && cast.ToBool(pr["merged"]) {
			ev.Action = "merged"
		}
		ev.Metrics.Additions = getInt(pr, "additions")
		ev.Metrics.Deletions = getInt(pr, "deletions")
		ev.Metrics.ChangedFiles = getInt(pr, "changed_files")
		ev.Timestamp = parseTime(getString(pr, "updated_at"), fallback)

	case "pull_request_review":
		ev.EventType = models.EventPullRequestReview
		ev.Action = getString(payload, "action")
		pr := getMap(payload, "pull_request")
		ev.Metrics.Comments = getInt(pr, "review_comments")
		ev.Timestamp = parseTime(getString(getMap(payload, "review"), "submitted_at"), fallback)

	case "issues":
		ev.EventType = models.EventIssue
		ev.Action = getString(payload, "action")
		ev.Timestamp = parseTime(getString(getMap(payload, "issue"), "updated_at"), fallback)

	case "issue_comment", "pull_request_review_comment", "commit_comment":
		ev.EventType = models.EventComment
		ev.Action = getString(payload, "action")
		ev.Timestamp = parseTime(getString(getMap(payload, "comment"), "created_at"), fallback)

	case "create":
		ev.EventType = models.EventCreate
		ev.Action = getString(payload, "ref_type")
		ev.Ref = getString(payload, "ref")

	default:
		return models.Event{}, false
	}
	return ev, true
}

func normalizeBitbucket(eventHint string, payload map[string]any, fallback time.Time) (models.Event, bool) {
	actor := getMap(payload, "actor")
	sender := getString(actor, "nickname")
	if sender == "" {
		sender = getString(actor, "username")
	}
	ev := models.Event{
		Provider:  ProviderBitbucket,
		Repo:      getString(getMap(payload, "repository"), "full_name"),
		Sender:    sender,
		Timestamp: fallback,
	}

	switch eventHint {
	case "repo:push":
		ev.EventType = models.EventPush
		for _, change := range getSlice(getMap(payload, "push"), "changes") {
			cm, _ := change.(map[string]any)
			ev.Metrics.Commits += len(getSlice(cm, "commits"))
		}

	case "pullrequest:created":
		ev.EventType = models.EventPullRequest
		ev.Action = "opened"
		ev.Timestamp = parseTime(getString(getMap(payload, "pullrequest"), "created_on"), fallback)

	case "pullrequest:fulfilled":
		ev.EventType = models.EventPullRequest
		ev.Action = "merged"
		ev.Timestamp = parseTime(getString(getMap(payload, "pullrequest"), "updated_on"), fallback)

	case "pullrequest:approved":
		ev.EventType = models.EventPullRequestReview
		ev.Action = "submitted"
		ev.Metrics.Comments = getInt(getMap(payload, "pullrequest"), "comment_count")

	case "issue:created":
		ev.EventType = models.EventIssue
		ev.Action = "opened"

	case "pullrequest:comment_created", "issue:comment_created":
		ev.EventType = models.EventComment
		ev.Action = "created"

	default:
		return models.Event{}, false
	}
	return ev, true
}

func normalizeAzure(payload map[string]any, fallback time.Time) (models.Event, bool) {
	resource := getMap(payload, "resource")
	ev := models.Event{
		Provider:  ProviderAzure,
		Timestamp: parseTime(getString(payload, "createdDate"), fallback),
	}

	switch getString(payload, "eventType") {
	case "git.push":
		ev.EventType = models.EventPush
		ev.Repo = getString(getMap(resource, "repository"), "name")
		ev.Sender = getString(getMap(resource, "pushedBy"), "uniqueName")
		ev.Metrics.Commits = len(getSlice(resource, "commits"))
		if ev.Metrics.Commits == 0 {
			ev.Metrics.Commits = getInt(resource, "commitCount")
		}

	case "git.pullrequest.created":
		ev.EventType = models.EventPullRequest
		ev.Action = "opened"
		ev.Repo = getString(getMap(resource, "repository"), "name")
		ev.Sender = getString(getMap(resource, "createdBy"), "uniqueName")

	case "git.pullrequest.merged":
		ev.EventType = models.EventPullRequest
		ev.Action = "merged"
		ev.Repo = getString(getMap(resource, "repository"), "name")
		ev.Sender = getString(getMap(resource, "createdBy"), "uniqueName")

	case "ms.vss-code.git-pullrequest-comment-event":
		ev.EventType = models.EventComment
		ev.Action = "created"
		prRepo := getMap(getMap(resource, "pullRequest"), "repository")
		ev.Repo = getString(prRepo, "name")
		ev.Sender = getString(getMap(getMap(resource, "comment"), "author"), "uniqueName")

	default:
		return models.Event{}, false
	}
	return ev, true
}

// --- payload field helpers (tolerant extraction via cast) ---

func getMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]any)
	return sub
}

func getSlice(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	s, _ := m[key].([]any)
	return s
}

func getString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	return cast.ToString(m[key])
}

func getInt(m map[string]any, key string) int {
	if m == nil {
		return 0
	}
	return cast.ToInt(m[key])
}

func parseTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999999Z", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}
