package refit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drydock-io/refit/notify"
)

// ResultStore persists a workflow result and its step ledger as a unit.
// Implemented by store.Store.
type ResultStore interface {
	SaveResult(ctx context.Context, repoID string, res *WorkflowResult) error
}

// Service wraps a Runner with persistence and optional notification. The
// runner itself never fails; the only error Run returns is a persistence
// failure, reported distinctly from in-pipeline failures (which live in the
// result's step ledger).
type Service struct {
	runner   *Runner
	store    ResultStore
	notifier notify.Notifier
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNotifier sets the notifier invoked after each persisted run.
func WithNotifier(n notify.Notifier) ServiceOption {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithServiceLogger sets the logger for best-effort warnings.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service. store may be nil, in which case results are
// returned without being persisted.
func NewService(runner *Runner, store ResultStore, opts ...ServiceOption) *Service {
	s := &Service{
		runner: runner,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the workflow and persists the resulting ledger keyed by the
// workflow id and the owning repository id. The result is always non-nil; a
// non-nil error means the run completed but could not be persisted.
func (s *Service) Run(ctx context.Context, repoID string, req *WorkflowRequest) (*WorkflowResult, error) {
	res := s.runner.Run(ctx, req)

	if s.store != nil {
		if err := s.store.SaveResult(ctx, repoID, res); err != nil {
			return res, fmt.Errorf("persist workflow %s: %w", res.WorkflowID, err)
		}
	}

	s.announce(ctx, repoID, res)
	return res, nil
}

// announce emits a completion event. Notification failures are logged and
// never affect the run outcome.
func (s *Service) announce(ctx context.Context, repoID string, res *WorkflowResult) {
	if s.notifier == nil {
		return
	}
	event := notify.Event{
		Type:        notify.EventWorkflowCompleted,
		WorkflowID:  res.WorkflowID,
		RepoID:      repoID,
		Status:      string(res.Status),
		Message:     fmt.Sprintf("workflow %s %s", res.WorkflowID, res.Status),
		PRURL:       res.PRURL,
		PipelineURL: res.PipelineURL,
		Timestamp:   time.Now(),
	}
	if res.Status == StatusFailed {
		event.Type = notify.EventWorkflowFailed
		event.Severity = notify.SeverityError
		for _, step := range res.Steps {
			if step.Status == StatusFailed {
				event.Message = fmt.Sprintf("workflow %s failed at %s: %s", res.WorkflowID, step.Kind, step.Detail)
				break
			}
		}
	} else {
		event.Severity = notify.SeverityInfo
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("workflow notification failed", "workflow_id", res.WorkflowID, "error", err)
	}
}
