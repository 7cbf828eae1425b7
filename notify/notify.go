package notify

import (
	"context"
	"time"
)

// EventType classifies a workflow notification.
type EventType string

// Event type constants.
const (
	EventWorkflowCompleted EventType = "workflow_completed"
	EventWorkflowFailed    EventType = "workflow_failed"
)

// Severity levels for notifications.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Event describes a finished workflow run for notification.
type Event struct {
	Type        EventType `json:"type"`
	WorkflowID  string    `json:"workflow_id"`
	RepoID      string    `json:"repo_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Severity    string    `json:"severity"`
	PRURL       string    `json:"pr_url,omitempty"`
	PipelineURL string    `json:"pipeline_url,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier sends notifications about finished workflow runs.
type Notifier interface {
	// Notify sends a notification. Implementations should handle errors
	// gracefully; callers log failures and never let them change a
	// workflow outcome.
	Notify(ctx context.Context, event Event) error
}
