// Package notify delivers notifications about finished workflow runs.
//
// Core types:
//   - Notifier: Interface for sending notifications
//   - Event: Notification event describing a workflow outcome
//   - EventType: Type of event (completed, failed)
//
// Implementations:
//   - SlackNotifier: Sends notifications to Slack webhooks
//   - WebhookNotifier: Sends notifications to generic webhooks
//   - LogNotifier: Logs notifications (for testing/debugging)
//   - MultiNotifier: Combines multiple notifiers
//   - NopNotifier: No-op notifier (for testing)
//
// Example usage:
//
//	notifier := notify.NewSlackNotifier(webhookURL,
//	    notify.WithSlackChannel("#refit-alerts"),
//	)
//	err := notifier.Notify(ctx, notify.Event{
//	    Type:    notify.EventWorkflowCompleted,
//	    Message: "Workflow completed successfully",
//	})
package notify
