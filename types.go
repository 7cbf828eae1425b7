package refit

import "github.com/drydock-io/refit/report"

// RepoSpec identifies the primary repository a workflow operates on.
type RepoSpec struct {
	// RepoURL is the canonical repository URL on the primary host.
	RepoURL string `json:"repo_url"`
	// BaseBranch is the branch the pull request targets. Never empty.
	BaseBranch string `json:"base_branch"`
	// LocalPath, when set, is an existing checkout to use instead of cloning.
	LocalPath string `json:"local_path,omitempty"`
}

// PatchSpec carries the change to land.
type PatchSpec struct {
	// Diff is the unified diff to apply. Must be non-empty.
	Diff string `json:"diff"`
	// Branch is the feature branch to create for the patch.
	Branch string `json:"branch"`
	// CommitMessage is used for the commit created from the diff.
	CommitMessage string `json:"commit_message"`
}

// PullRequestSpec describes the pull request to open on the primary host.
type PullRequestSpec struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Draft bool   `json:"draft"`
}

// MirrorSpec describes the secondary host that receives a duplicate push.
type MirrorSpec struct {
	// MirrorURL is the git URL of the mirror repository.
	MirrorURL string `json:"mirror_url"`
	// ProjectPath is the mirror project path (namespace/name).
	ProjectPath string `json:"project_path"`
	// PipelineRef overrides the ref used to trigger CI. Defaults to the
	// feature branch when empty.
	PipelineRef string `json:"pipeline_ref,omitempty"`
}

// WorkflowRequest is the immutable input for one workflow run.
type WorkflowRequest struct {
	Repo   RepoSpec        `json:"repo"`
	Patch  PatchSpec       `json:"patch"`
	PR     PullRequestSpec `json:"pr"`
	Mirror MirrorSpec      `json:"mirror"`
	// FleetReport, when present, is used only to interpolate the PR body
	// from a repository template.
	FleetReport *report.Report `json:"fleet_report,omitempty"`
}

// WorkflowStatus is the outcome of a step or of a whole run.
type WorkflowStatus string

// Workflow status values. The strings are part of the wire and persistence
// contract; do not change them.
const (
	StatusSuccess WorkflowStatus = "success"
	StatusFailed  WorkflowStatus = "failed"
	StatusSkipped WorkflowStatus = "skipped"
)

// WorkflowStepKind identifies one of the seven pipeline phases.
type WorkflowStepKind string

// Step kinds, in execution order. The strings are part of the wire and
// persistence contract; do not change them.
const (
	StepApplyPatch            WorkflowStepKind = "apply_patch"
	StepCreateBranch          WorkflowStepKind = "create_branch"
	StepPushBranch            WorkflowStepKind = "push_branch"
	StepEnsureMirrorProject   WorkflowStepKind = "ensure_mirror_project"
	StepMirrorPush            WorkflowStepKind = "mirror_push"
	StepTriggerMirrorPipeline WorkflowStepKind = "trigger_mirror_pipeline"
	StepOpenPR                WorkflowStepKind = "open_pr"
)

// StepOrder is the fixed execution order of the pipeline. It drives both
// execution and the skip cascade after a failure.
var StepOrder = [7]WorkflowStepKind{
	StepApplyPatch,
	StepCreateBranch,
	StepPushBranch,
	StepEnsureMirrorProject,
	StepMirrorPush,
	StepTriggerMirrorPipeline,
	StepOpenPR,
}

// StepsAfter returns the step kinds that follow kind in the fixed order.
func StepsAfter(kind WorkflowStepKind) []WorkflowStepKind {
	for i, k := range StepOrder {
		if k == kind {
			return StepOrder[i+1:]
		}
	}
	return nil
}

// WorkflowStep records the outcome of a single phase.
type WorkflowStep struct {
	Kind   WorkflowStepKind `json:"kind"`
	Status WorkflowStatus   `json:"status"`
	// Detail holds a human-readable note on success (commit id, pushed ref)
	// or the error text on failure.
	Detail string `json:"detail,omitempty"`
}

// WorkflowResult is the complete, append-only ledger of one run. It always
// contains exactly seven steps in the fixed order regardless of where the
// run failed.
type WorkflowResult struct {
	WorkflowID  string         `json:"workflow_id"`
	Status      WorkflowStatus `json:"status"`
	Steps       []WorkflowStep `json:"steps"`
	PRURL       string         `json:"pr_url,omitempty"`
	PipelineURL string         `json:"pipeline_url,omitempty"`
}

// Workspace is an on-disk checkout used for one run. Managed workspaces were
// created by the git transport and are deleted on cleanup; unmanaged ones
// belong to the caller and are left alone.
type Workspace struct {
	Path    string
	Managed bool
}
