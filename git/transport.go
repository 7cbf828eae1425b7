package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/drydock-io/refit"
)

// Usernames paired with injected tokens, one per host convention.
const (
	primaryTokenUser = "x-access-token"
	mirrorTokenUser  = "oauth2"
)

// mirrorRemote is the name of the second remote pointed at the mirror.
const mirrorRemote = "refit-mirror"

// patchFileName is the temporary file the diff is written to inside the
// workspace before application.
const patchFileName = "refit.patch"

// Config holds the transport's startup configuration. Build it once (see
// the config package) and pass it in; the transport never reads the
// environment itself.
type Config struct {
	// WorkspaceRoot is the directory fresh clones are created under.
	// Defaults to <tmp>/refit-workspaces.
	WorkspaceRoot string
	// KeepWorkspace disables workspace deletion on cleanup, for debugging.
	KeepWorkspace bool
	// GitHubToken is injected into primary-remote https URLs.
	GitHubToken string
	// GitLabToken is injected into mirror https URLs.
	GitLabToken string
	// AuthorName and AuthorEmail form the commit identity for applied
	// patches.
	AuthorName  string
	AuthorEmail string
}

// Transport implements refit.GitClient by shelling out to git.
type Transport struct {
	cfg    Config
	runner CommandRunner
}

// Option configures a Transport.
type Option func(*Transport)

// WithRunner sets a custom command runner. This is primarily used for
// testing to inject scripted command execution.
func WithRunner(runner CommandRunner) Option {
	return func(t *Transport) {
		t.runner = runner
	}
}

// NewTransport creates a git transport with the given configuration.
func NewTransport(cfg Config, opts ...Option) *Transport {
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = filepath.Join(os.TempDir(), "refit-workspaces")
	}
	if cfg.AuthorName == "" {
		cfg.AuthorName = "Refit Bot"
	}
	if cfg.AuthorEmail == "" {
		cfg.AuthorEmail = "refit@example.com"
	}
	t := &Transport{
		cfg:    cfg,
		runner: NewExecRunner(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// PrepareWorkspace implements refit.GitClient. A configured local path is
// validated and returned unmanaged; otherwise the repository is cloned into
// a fresh uniquely-named directory under the workspace root and checked out
// at the base branch.
func (t *Transport) PrepareWorkspace(ctx context.Context, repo refit.RepoSpec) (*refit.Workspace, error) {
	if strings.TrimSpace(repo.BaseBranch) == "" {
		return nil, refit.Validationf("base_branch is required")
	}

	if local := strings.TrimSpace(repo.LocalPath); local != "" {
		info, err := os.Stat(local)
		if err != nil || !info.IsDir() {
			return nil, refit.Validationf("local_path not found: %s", local)
		}
		if _, err := os.Stat(filepath.Join(local, ".git")); err != nil {
			return nil, refit.Validationf("local_path is not a git repository: %s", local)
		}
		return &refit.Workspace{Path: local, Managed: false}, nil
	}

	if strings.TrimSpace(repo.RepoURL) == "" {
		return nil, refit.Validationf("repo_url is required")
	}

	if err := os.MkdirAll(t.cfg.WorkspaceRoot, 0o755); err != nil {
		return nil, &refit.TransportError{Op: "create workspace root", Err: err}
	}
	// A fresh random directory per run keeps concurrent runs sharing one
	// workspace root from colliding.
	path := filepath.Join(t.cfg.WorkspaceRoot, uuid.NewString())

	cloneURL := InjectCredentials(repo.RepoURL, primaryTokenUser, t.cfg.GitHubToken)
	if _, err := t.run(ctx, t.cfg.WorkspaceRoot, "clone", cloneURL, path); err != nil {
		return nil, err
	}
	if _, err := t.run(ctx, path, "fetch", "origin", repo.BaseBranch); err != nil {
		return nil, err
	}
	if _, err := t.run(ctx, path, "checkout", repo.BaseBranch); err != nil {
		return nil, err
	}

	return &refit.Workspace{Path: path, Managed: true}, nil
}

// ApplyPatch implements refit.GitClient. The diff is written to a temporary
// file inside the workspace, applied, and committed with the configured
// author identity. Applying a diff that changes nothing is an error.
func (t *Transport) ApplyPatch(ctx context.Context, ws *refit.Workspace, patch refit.PatchSpec) (string, error) {
	if strings.TrimSpace(patch.Diff) == "" {
		return "", refit.Validationf("patch diff is empty")
	}

	before, err := t.run(ctx, ws.Path, "status", "--porcelain")
	if err != nil {
		return "", err
	}

	patchPath := filepath.Join(ws.Path, patchFileName)
	if err := os.WriteFile(patchPath, []byte(patch.Diff), 0o600); err != nil {
		return "", &refit.TransportError{Op: "write patch file", Err: err}
	}
	_, applyErr := t.run(ctx, ws.Path, "apply", patchPath)
	// The patch file is scratch space; never let it reach the commit.
	os.Remove(patchPath)
	if applyErr != nil {
		return "", applyErr
	}

	after, err := t.run(ctx, ws.Path, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		return "", refit.Validationf("patch produced no changes")
	}

	if _, err := t.run(ctx, ws.Path, "add", "-A"); err != nil {
		return "", err
	}
	if _, err := t.run(ctx, ws.Path,
		"-c", "user.name="+t.cfg.AuthorName,
		"-c", "user.email="+t.cfg.AuthorEmail,
		"commit", "-m", patch.CommitMessage,
	); err != nil {
		return "", err
	}

	commit, err := t.run(ctx, ws.Path, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(commit), nil
}

// CreateBranch implements refit.GitClient. checkout -B makes a rerun with
// the same branch name reset the branch rather than fail.
func (t *Transport) CreateBranch(ctx context.Context, ws *refit.Workspace, base, branch string) error {
	if strings.TrimSpace(branch) == "" {
		return refit.Validationf("branch name is required")
	}
	if _, err := t.run(ctx, ws.Path, "checkout", base); err != nil {
		return err
	}
	if _, err := t.run(ctx, ws.Path, "checkout", "-B", branch, base); err != nil {
		return err
	}
	return nil
}

// PushBranch implements refit.GitClient.
func (t *Transport) PushBranch(ctx context.Context, ws *refit.Workspace, repo refit.RepoSpec, branch string) (string, error) {
	remoteURL := InjectCredentials(repo.RepoURL, primaryTokenUser, t.cfg.GitHubToken)
	if _, err := t.run(ctx, ws.Path, "remote", "set-url", "origin", remoteURL); err != nil {
		return "", err
	}
	if _, err := t.run(ctx, ws.Path, "push", "origin", branch); err != nil {
		return "", err
	}
	return "origin/" + branch, nil
}

// PushMirror implements refit.GitClient. The mirror uses its own remote so
// a failure here never disturbs the primary branch already pushed.
func (t *Transport) PushMirror(ctx context.Context, ws *refit.Workspace, mirror refit.MirrorSpec, branch string) (string, error) {
	if strings.TrimSpace(mirror.MirrorURL) == "" {
		return "", refit.Validationf("mirror_url is required")
	}
	mirrorURL := InjectCredentials(mirror.MirrorURL, mirrorTokenUser, t.cfg.GitLabToken)
	if _, err := t.run(ctx, ws.Path, "remote", "set-url", mirrorRemote, mirrorURL); err != nil {
		// set-url fails when the remote does not exist yet.
		if _, err := t.run(ctx, ws.Path, "remote", "add", mirrorRemote, mirrorURL); err != nil {
			return "", err
		}
	}
	if _, err := t.run(ctx, ws.Path, "push", mirrorRemote, branch); err != nil {
		return "", err
	}
	return "mirror/" + branch, nil
}

// Cleanup implements refit.GitClient. Only managed workspaces are deleted,
// and only when KeepWorkspace is unset. The caller treats any error as a
// warning, never as a workflow failure.
func (t *Transport) Cleanup(ws *refit.Workspace) error {
	if ws == nil || !ws.Managed || t.cfg.KeepWorkspace {
		return nil
	}
	if err := os.RemoveAll(ws.Path); err != nil {
		return fmt.Errorf("remove workspace %s: %w", ws.Path, err)
	}
	return nil
}

// run executes one git command and returns its stdout, mapping execution
// failures and non-zero exits to TransportError.
func (t *Transport) run(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := t.runner.Run(ctx, dir, args...)
	op := "git " + strings.Join(args, " ")
	if err != nil {
		return "", &refit.TransportError{Op: op, Err: err}
	}
	if res.ExitCode != 0 {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		return "", &refit.TransportError{Op: op, Body: detail}
	}
	return res.Stdout, nil
}
