package refit

import (
	"context"
	"strings"
	"sync"
)

// MockGitClient is an in-memory GitClient that validates inputs without
// touching disk or spawning git. Selected via the "mock" operating mode and
// used throughout the runner tests.
type MockGitClient struct {
	// WorkspacePath overrides the fake workspace path. Tests point it at a
	// real directory when exercising PR template discovery.
	WorkspacePath string

	mu       sync.Mutex
	cleanups int
}

// PrepareWorkspace implements GitClient.
func (m *MockGitClient) PrepareWorkspace(_ context.Context, repo RepoSpec) (*Workspace, error) {
	if strings.TrimSpace(repo.BaseBranch) == "" {
		return nil, Validationf("base_branch is required")
	}
	if strings.TrimSpace(repo.RepoURL) == "" && strings.TrimSpace(repo.LocalPath) == "" {
		return nil, Validationf("repo_url is required")
	}
	path := m.WorkspacePath
	if path == "" {
		path = "/tmp/refit-mock"
	}
	return &Workspace{Path: path, Managed: false}, nil
}

// ApplyPatch implements GitClient.
func (m *MockGitClient) ApplyPatch(_ context.Context, _ *Workspace, patch PatchSpec) (string, error) {
	if strings.TrimSpace(patch.Diff) == "" {
		return "", Validationf("patch diff is empty")
	}
	return "mock-commit-sha", nil
}

// CreateBranch implements GitClient.
func (m *MockGitClient) CreateBranch(_ context.Context, _ *Workspace, base, branch string) error {
	if strings.TrimSpace(base) == "" {
		return Validationf("base branch is required")
	}
	if strings.TrimSpace(branch) == "" {
		return Validationf("branch name is required")
	}
	return nil
}

// PushBranch implements GitClient.
func (m *MockGitClient) PushBranch(_ context.Context, _ *Workspace, repo RepoSpec, branch string) (string, error) {
	if strings.TrimSpace(repo.RepoURL) == "" {
		return "", Validationf("repo_url is required")
	}
	return "origin/" + branch, nil
}

// PushMirror implements GitClient.
func (m *MockGitClient) PushMirror(_ context.Context, _ *Workspace, mirror MirrorSpec, branch string) (string, error) {
	if strings.TrimSpace(mirror.MirrorURL) == "" {
		return "", Validationf("mirror_url is required")
	}
	return "mirror/" + branch, nil
}

// Cleanup implements GitClient.
func (m *MockGitClient) Cleanup(_ *Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups++
	return nil
}

// Cleanups returns how many times Cleanup has been called.
func (m *MockGitClient) Cleanups() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanups
}

// MockHostClient is an in-memory HostClient. It records the last pull
// request spec it was asked to open.
type MockHostClient struct {
	mu       sync.Mutex
	lastSpec *PullRequestSpec
}

// OpenPR implements HostClient.
func (m *MockHostClient) OpenPR(_ context.Context, repo RepoSpec, pr PullRequestSpec, _ string) (string, error) {
	if strings.TrimSpace(repo.RepoURL) == "" {
		return "", Validationf("repo_url is required")
	}
	if strings.TrimSpace(pr.Title) == "" {
		return "", Validationf("pull request title is required")
	}
	m.mu.Lock()
	m.lastSpec = &pr
	m.mu.Unlock()
	return "https://github.com/refit/mock/pull/1", nil
}

// LastSpec returns the most recently opened pull request spec, or nil.
func (m *MockHostClient) LastSpec() *PullRequestSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSpec
}

// MockMirrorClient is an in-memory MirrorClient.
type MockMirrorClient struct{}

// EnsureProject implements MirrorClient.
func (m *MockMirrorClient) EnsureProject(_ context.Context, mirror MirrorSpec) error {
	if strings.TrimSpace(mirror.ProjectPath) == "" {
		return Validationf("mirror project_path is required")
	}
	return nil
}

// TriggerPipeline implements MirrorClient.
func (m *MockMirrorClient) TriggerPipeline(_ context.Context, mirror MirrorSpec, branch string) (string, error) {
	if strings.TrimSpace(mirror.ProjectPath) == "" {
		return "", Validationf("mirror project_path is required")
	}
	ref := mirror.PipelineRef
	if ref == "" {
		ref = branch
	}
	return "https://gitlab.example.com/" + mirror.ProjectPath + "/-/pipelines/" + ref, nil
}
