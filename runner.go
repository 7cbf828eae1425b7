package refit

import (
	"context"
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/drydock-io/refit/report"
)

// GitClient performs version-control operations for a workflow run.
// Implementations: git.Transport (shells out to git) and MockGitClient.
type GitClient interface {
	// PrepareWorkspace returns a checkout of the repository at its base
	// branch: either a validated pre-existing local path (unmanaged) or a
	// fresh clone under the workspace root (managed).
	PrepareWorkspace(ctx context.Context, repo RepoSpec) (*Workspace, error)

	// ApplyPatch applies the diff, commits it, and returns the commit id.
	// It fails if the diff is empty or applies without changing anything.
	ApplyPatch(ctx context.Context, ws *Workspace, patch PatchSpec) (string, error)

	// CreateBranch creates or resets branch from base. Idempotent for the
	// same branch name.
	CreateBranch(ctx context.Context, ws *Workspace, base, branch string) error

	// PushBranch pushes branch to the primary remote and returns the
	// remote-ref descriptor (e.g. "origin/fix-docs").
	PushBranch(ctx context.Context, ws *Workspace, repo RepoSpec, branch string) (string, error)

	// PushMirror pushes branch to the mirror remote and returns the
	// remote-ref descriptor. Independent of the primary push.
	PushMirror(ctx context.Context, ws *Workspace, mirror MirrorSpec, branch string) (string, error)

	// Cleanup deletes a managed workspace. Best-effort: callers log
	// failures and never surface them as workflow failures.
	Cleanup(ws *Workspace) error
}

// HostClient opens pull requests on the primary host.
type HostClient interface {
	// OpenPR creates the pull request and returns its web URL.
	OpenPR(ctx context.Context, repo RepoSpec, pr PullRequestSpec, branch string) (string, error)
}

// MirrorClient manages the secondary host project and its CI.
type MirrorClient interface {
	// EnsureProject makes sure the mirror project exists, creating it if
	// needed. Idempotent.
	EnsureProject(ctx context.Context, mirror MirrorSpec) error

	// TriggerPipeline starts a CI pipeline for the given branch (or the
	// mirror's explicit pipeline ref) and returns the pipeline web URL.
	TriggerPipeline(ctx context.Context, mirror MirrorSpec, branch string) (string, error)
}

// Clients bundles the three transports a Runner drives.
type Clients struct {
	Git    GitClient
	Host   HostClient
	Mirror MirrorClient
}

// MockClients returns the mock transport set used for tests and offline runs.
func MockClients() Clients {
	return Clients{
		Git:    &MockGitClient{},
		Host:   &MockHostClient{},
		Mirror: &MockMirrorClient{},
	}
}

// skippedDetail is the fixed detail recorded for every step after a failure.
const skippedDetail = "skipped due to prior failure"

// Runner executes the seven-phase workflow pipeline.
type Runner struct {
	clients Clients
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for best-effort warnings.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner driving the given transports.
func NewRunner(clients Clients, opts ...RunnerOption) *Runner {
	r := &Runner{
		clients: clients,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the pipeline for one request and returns the complete step
// ledger. It never returns an error: every failure is attributed to a step
// in the result. Run imposes no internal timeout or retry; bound it with a
// context deadline and resubmit failed runs as new runs.
func (r *Runner) Run(ctx context.Context, req *WorkflowRequest) *WorkflowResult {
	res := &WorkflowResult{
		WorkflowID: newWorkflowID(),
		Status:     StatusSuccess,
	}

	ws, err := r.clients.Git.PrepareWorkspace(ctx, req.Repo)
	if err != nil {
		// No dedicated prepare step exists in the ledger; preparation
		// failures are recorded under apply_patch.
		res.fail(StepApplyPatch, err)
		return res
	}
	defer r.release(ws)

	commit, err := r.clients.Git.ApplyPatch(ctx, ws, req.Patch)
	if err != nil {
		res.fail(StepApplyPatch, err)
		return res
	}
	res.succeed(StepApplyPatch, fmt.Sprintf("applied patch (%s)", commit))

	if err := r.clients.Git.CreateBranch(ctx, ws, req.Repo.BaseBranch, req.Patch.Branch); err != nil {
		res.fail(StepCreateBranch, err)
		return res
	}
	res.succeed(StepCreateBranch, fmt.Sprintf("created branch %s from %s", req.Patch.Branch, req.Repo.BaseBranch))

	remoteRef, err := r.clients.Git.PushBranch(ctx, ws, req.Repo, req.Patch.Branch)
	if err != nil {
		res.fail(StepPushBranch, err)
		return res
	}
	res.succeed(StepPushBranch, fmt.Sprintf("pushed %s (commit %s)", remoteRef, commit))

	if err := r.clients.Mirror.EnsureProject(ctx, req.Mirror); err != nil {
		res.fail(StepEnsureMirrorProject, err)
		return res
	}
	res.succeed(StepEnsureMirrorProject, fmt.Sprintf("ensured mirror project %s", req.Mirror.ProjectPath))

	mirrorRef, err := r.clients.Git.PushMirror(ctx, ws, req.Mirror, req.Patch.Branch)
	if err != nil {
		res.fail(StepMirrorPush, err)
		return res
	}
	res.succeed(StepMirrorPush, fmt.Sprintf("pushed %s", mirrorRef))

	pipelineURL, err := r.clients.Mirror.TriggerPipeline(ctx, req.Mirror, req.Patch.Branch)
	if err != nil {
		res.fail(StepTriggerMirrorPipeline, err)
		return res
	}
	res.PipelineURL = pipelineURL
	res.succeed(StepTriggerMirrorPipeline, fmt.Sprintf("triggered pipeline %s", pipelineURL))

	prSpec, err := composePRSpec(req, ws)
	if err != nil {
		res.fail(StepOpenPR, err)
		return res
	}

	prURL, err := r.clients.Host.OpenPR(ctx, req.Repo, prSpec, req.Patch.Branch)
	if err != nil {
		res.fail(StepOpenPR, err)
		return res
	}
	res.PRURL = prURL
	res.succeed(StepOpenPR, fmt.Sprintf("opened PR %s", prURL))

	return res
}

// release cleans up the workspace exactly once per run. Cleanup failures are
// logged and never change the workflow outcome.
func (r *Runner) release(ws *Workspace) {
	if err := r.clients.Git.Cleanup(ws); err != nil {
		r.logger.Warn("workspace cleanup failed", "path", ws.Path, "error", err)
	}
}

// composePRSpec merges an optional repository PR template, rendered from the
// request's health report, with the caller-supplied body. Without a report
// the caller's spec passes through unchanged.
func composePRSpec(req *WorkflowRequest, ws *Workspace) (PullRequestSpec, error) {
	prSpec := req.PR
	if req.FleetReport == nil {
		return prSpec, nil
	}
	rendered, found, err := report.Interpolate(ws.Path, req.FleetReport)
	if err != nil {
		return prSpec, &TransportError{Op: "pr template interpolation", Err: err}
	}
	if found {
		prSpec.Body = report.MergeBody(rendered, prSpec.Body)
	}
	return prSpec, nil
}

func (res *WorkflowResult) succeed(kind WorkflowStepKind, detail string) {
	res.Steps = append(res.Steps, WorkflowStep{Kind: kind, Status: StatusSuccess, Detail: detail})
}

// fail records the failed step, marks the run failed, and appends a skipped
// record for every remaining step so the ledger always has seven entries.
func (res *WorkflowResult) fail(kind WorkflowStepKind, err error) {
	res.Steps = append(res.Steps, WorkflowStep{Kind: kind, Status: StatusFailed, Detail: err.Error()})
	res.Status = StatusFailed
	for _, remaining := range StepsAfter(kind) {
		res.Steps = append(res.Steps, WorkflowStep{Kind: remaining, Status: StatusSkipped, Detail: skippedDetail})
	}
}

func newWorkflowID() string {
	return gonanoid.Must()
}
