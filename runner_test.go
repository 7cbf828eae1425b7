package refit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drydock-io/refit/report"
)

func sampleRequest() *WorkflowRequest {
	return &WorkflowRequest{
		Repo: RepoSpec{
			RepoURL:    "https://github.com/drydock-io/demo",
			BaseBranch: "main",
		},
		Patch: PatchSpec{
			Diff:          "diff --git a/main.go b/main.go\n",
			Branch:        "refit/cleanup",
			CommitMessage: "refit: apply cleanup patch",
		},
		PR: PullRequestSpec{
			Title: "Refit cleanup",
			Body:  "Automated cleanup.",
		},
		Mirror: MirrorSpec{
			MirrorURL:   "https://gitlab.example.com/mirrors/demo.git",
			ProjectPath: "mirrors/demo",
		},
	}
}

// failingMirror fails EnsureProject; everything else delegates to the mock.
type failingMirror struct {
	MockMirrorClient
}

func (failingMirror) EnsureProject(context.Context, MirrorSpec) error {
	return errors.New("mirror host unavailable")
}

// failingTrigger fails TriggerPipeline only.
type failingTrigger struct {
	MockMirrorClient
}

func (failingTrigger) TriggerPipeline(context.Context, MirrorSpec, string) (string, error) {
	return "", errors.New("pipeline trigger rejected")
}

// failingHost fails OpenPR.
type failingHost struct{}

func (failingHost) OpenPR(context.Context, RepoSpec, PullRequestSpec, string) (string, error) {
	return "", errors.New("pull request rejected")
}

func TestRunner_Run_Success(t *testing.T) {
	clients := MockClients()
	git := clients.Git.(*MockGitClient)
	runner := NewRunner(clients)

	res := runner.Run(context.Background(), sampleRequest())

	if res.Status != StatusSuccess {
		t.Fatalf("Status = %q, want %q", res.Status, StatusSuccess)
	}
	if len(res.Steps) != 7 {
		t.Fatalf("len(Steps) = %d, want 7", len(res.Steps))
	}
	for i, step := range res.Steps {
		if step.Kind != StepOrder[i] {
			t.Errorf("Steps[%d].Kind = %q, want %q", i, step.Kind, StepOrder[i])
		}
		if step.Status != StatusSuccess {
			t.Errorf("Steps[%d].Status = %q, want %q", i, step.Status, StatusSuccess)
		}
	}
	if res.WorkflowID == "" {
		t.Error("WorkflowID should be set")
	}
	if res.PRURL == "" {
		t.Error("PRURL should be set on success")
	}
	if res.PipelineURL == "" {
		t.Error("PipelineURL should be set on success")
	}
	if got := res.Steps[0].Detail; got != "applied patch (mock-commit-sha)" {
		t.Errorf("apply detail = %q", got)
	}
	if got := res.Steps[1].Detail; got != "created branch refit/cleanup from main" {
		t.Errorf("branch detail = %q", got)
	}
	if got := res.Steps[2].Detail; got != "pushed origin/refit/cleanup (commit mock-commit-sha)" {
		t.Errorf("push detail = %q", got)
	}
	if got := git.Cleanups(); got != 1 {
		t.Errorf("Cleanups() = %d, want 1", got)
	}
}

func TestRunner_Run_FailureCascade(t *testing.T) {
	clients := MockClients()
	clients.Mirror = &failingMirror{}
	git := clients.Git.(*MockGitClient)
	runner := NewRunner(clients)

	res := runner.Run(context.Background(), sampleRequest())

	if res.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", res.Status, StatusFailed)
	}
	if len(res.Steps) != 7 {
		t.Fatalf("len(Steps) = %d, want 7", len(res.Steps))
	}

	wantStatus := []WorkflowStatus{
		StatusSuccess, StatusSuccess, StatusSuccess,
		StatusFailed,
		StatusSkipped, StatusSkipped, StatusSkipped,
	}
	for i, step := range res.Steps {
		if step.Kind != StepOrder[i] {
			t.Errorf("Steps[%d].Kind = %q, want %q", i, step.Kind, StepOrder[i])
		}
		if step.Status != wantStatus[i] {
			t.Errorf("Steps[%d].Status = %q, want %q", i, step.Status, wantStatus[i])
		}
	}
	if got := res.Steps[3].Detail; got != "mirror host unavailable" {
		t.Errorf("failed detail = %q", got)
	}
	for i := 4; i < 7; i++ {
		if res.Steps[i].Detail != skippedDetail {
			t.Errorf("Steps[%d].Detail = %q, want %q", i, res.Steps[i].Detail, skippedDetail)
		}
	}
	if res.PRURL != "" {
		t.Errorf("PRURL = %q, want empty on failure before open_pr", res.PRURL)
	}
	if res.PipelineURL != "" {
		t.Errorf("PipelineURL = %q, want empty on failure before trigger", res.PipelineURL)
	}
	if got := git.Cleanups(); got != 1 {
		t.Errorf("Cleanups() = %d, want 1", got)
	}
}

func TestRunner_Run_TriggerFailureSkipsPR(t *testing.T) {
	clients := MockClients()
	clients.Mirror = &failingTrigger{}
	runner := NewRunner(clients)

	res := runner.Run(context.Background(), sampleRequest())

	if res.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", res.Status, StatusFailed)
	}
	if res.Steps[5].Status != StatusFailed {
		t.Errorf("trigger step = %q, want failed", res.Steps[5].Status)
	}
	if res.Steps[6].Status != StatusSkipped {
		t.Errorf("open_pr step = %q, want skipped", res.Steps[6].Status)
	}
	if res.PipelineURL != "" {
		t.Errorf("PipelineURL = %q, want empty", res.PipelineURL)
	}
}

func TestRunner_Run_OpenPRFailure(t *testing.T) {
	clients := MockClients()
	clients.Host = failingHost{}
	runner := NewRunner(clients)

	res := runner.Run(context.Background(), sampleRequest())

	if res.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", res.Status, StatusFailed)
	}
	for i := 0; i < 6; i++ {
		if res.Steps[i].Status != StatusSuccess {
			t.Errorf("Steps[%d].Status = %q, want success", i, res.Steps[i].Status)
		}
	}
	if res.Steps[6].Status != StatusFailed {
		t.Errorf("open_pr step = %q, want failed", res.Steps[6].Status)
	}
	// The pipeline was already triggered; its URL survives the PR failure.
	if res.PipelineURL == "" {
		t.Error("PipelineURL should be set when trigger succeeded")
	}
	if res.PRURL != "" {
		t.Errorf("PRURL = %q, want empty", res.PRURL)
	}
}

func TestRunner_Run_EmptyDiff(t *testing.T) {
	runner := NewRunner(MockClients())

	req := sampleRequest()
	req.Patch.Diff = "   "
	res := runner.Run(context.Background(), req)

	if res.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", res.Status, StatusFailed)
	}
	if res.Steps[0].Kind != StepApplyPatch || res.Steps[0].Status != StatusFailed {
		t.Errorf("Steps[0] = %+v, want failed apply_patch", res.Steps[0])
	}
	if len(res.Steps) != 7 {
		t.Fatalf("len(Steps) = %d, want 7", len(res.Steps))
	}
	for i := 1; i < 7; i++ {
		if res.Steps[i].Status != StatusSkipped {
			t.Errorf("Steps[%d].Status = %q, want skipped", i, res.Steps[i].Status)
		}
	}
}

func TestRunner_Run_PrepareFailure(t *testing.T) {
	clients := MockClients()
	git := clients.Git.(*MockGitClient)
	runner := NewRunner(clients)

	req := sampleRequest()
	req.Repo.BaseBranch = ""
	res := runner.Run(context.Background(), req)

	if res.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", res.Status, StatusFailed)
	}
	// Preparation has no ledger entry of its own; the failure lands on
	// apply_patch.
	if res.Steps[0].Kind != StepApplyPatch || res.Steps[0].Status != StatusFailed {
		t.Errorf("Steps[0] = %+v, want failed apply_patch", res.Steps[0])
	}
	if len(res.Steps) != 7 {
		t.Fatalf("len(Steps) = %d, want 7", len(res.Steps))
	}
	// No workspace was created, so nothing to clean up.
	if got := git.Cleanups(); got != 0 {
		t.Errorf("Cleanups() = %d, want 0", got)
	}
}

func TestRunner_Run_MissingRepoURL(t *testing.T) {
	runner := NewRunner(MockClients())

	req := sampleRequest()
	req.Repo.RepoURL = ""
	req.Repo.LocalPath = ""
	res := runner.Run(context.Background(), req)

	if res.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", res.Status, StatusFailed)
	}
	if res.Steps[0].Kind != StepApplyPatch || res.Steps[0].Status != StatusFailed {
		t.Errorf("Steps[0] = %+v, want failed apply_patch", res.Steps[0])
	}
	if !strings.Contains(res.Steps[0].Detail, "repo_url") {
		t.Errorf("Detail = %q, want validation message", res.Steps[0].Detail)
	}
	for i := 1; i < 7; i++ {
		if res.Steps[i].Status != StatusSkipped {
			t.Errorf("Steps[%d].Status = %q, want skipped", i, res.Steps[i].Status)
		}
	}
}

func TestRunner_Run_TemplateInterpolation(t *testing.T) {
	dir := t.TempDir()
	template := "## Summary\n{{REFIT_STATS}}\n\n{{REFIT_FIXES}}\n"
	if err := os.WriteFile(filepath.Join(dir, "PULL_REQUEST_TEMPLATE.md"), []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}

	clients := MockClients()
	clients.Git.(*MockGitClient).WorkspacePath = dir
	host := clients.Host.(*MockHostClient)
	runner := NewRunner(clients)

	req := sampleRequest()
	req.FleetReport = &report.Report{
		LanguageStats: map[string]float64{"Go": 100},
		HealthScore:   90,
	}
	res := runner.Run(context.Background(), req)

	if res.Status != StatusSuccess {
		t.Fatalf("Status = %q, want success", res.Status)
	}
	spec := host.LastSpec()
	if spec == nil {
		t.Fatal("host never received a pull request spec")
	}
	if !strings.Contains(spec.Body, "Health score: 90/100") {
		t.Errorf("body missing rendered stats:\n%s", spec.Body)
	}
	if !strings.Contains(spec.Body, "No violations detected.") {
		t.Errorf("body missing rendered fixes:\n%s", spec.Body)
	}
	if !strings.HasSuffix(spec.Body, "Automated cleanup.") {
		t.Errorf("body should end with the caller-supplied text:\n%s", spec.Body)
	}
	if strings.Contains(spec.Body, "{{REFIT_") {
		t.Errorf("body still contains placeholder tokens:\n%s", spec.Body)
	}
}

func TestRunner_Run_NoTemplateLeavesBody(t *testing.T) {
	clients := MockClients()
	clients.Git.(*MockGitClient).WorkspacePath = t.TempDir()
	host := clients.Host.(*MockHostClient)
	runner := NewRunner(clients)

	req := sampleRequest()
	req.FleetReport = &report.Report{HealthScore: 50}
	res := runner.Run(context.Background(), req)

	if res.Status != StatusSuccess {
		t.Fatalf("Status = %q, want success", res.Status)
	}
	spec := host.LastSpec()
	if spec == nil {
		t.Fatal("host never received a pull request spec")
	}
	if spec.Body != "Automated cleanup." {
		t.Errorf("Body = %q, want caller body unchanged", spec.Body)
	}
}
