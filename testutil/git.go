package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SetupTestRepo creates a temporary git repository with an initial commit
// on branch "main". Returns the path to the repository. The repository is
// automatically cleaned up when the test ends.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	if err := runGit(t, dir, "init", "--initial-branch=main"); err != nil {
		t.Fatalf("git init failed: %v", err)
	}

	if err := runGit(t, dir, "config", "user.email", "test@test.com"); err != nil {
		t.Fatalf("git config email failed: %v", err)
	}
	if err := runGit(t, dir, "config", "user.name", "Test User"); err != nil {
		t.Fatalf("git config name failed: %v", err)
	}

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repository\n"), 0o644); err != nil {
		t.Fatalf("failed to create README: %v", err)
	}

	if err := runGit(t, dir, "add", "."); err != nil {
		t.Fatalf("git add failed: %v", err)
	}

	if err := runGit(t, dir, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("git commit failed: %v", err)
	}

	return dir
}

// SetupBareRemote creates a bare repository usable as a push target.
func SetupBareRemote(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := runGit(t, dir, "init", "--bare", "--initial-branch=main"); err != nil {
		t.Fatalf("git init --bare failed: %v", err)
	}
	return dir
}

// CommitFile creates or updates a file and commits it.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}

	if err := runGit(t, repoDir, "add", path); err != nil {
		t.Fatalf("git add %s failed: %v", path, err)
	}
	if err := runGit(t, repoDir, "commit", "-m", message); err != nil {
		t.Fatalf("git commit failed: %v", err)
	}
}

// GetCurrentBranch returns the current branch name.
func GetCurrentBranch(t *testing.T, repoDir string) string {
	t.Helper()
	return gitOutput(t, repoDir, "branch", "--show-current")
}

// GetHeadSHA returns the current HEAD SHA.
func GetHeadSHA(t *testing.T, repoDir string) string {
	t.Helper()
	return gitOutput(t, repoDir, "rev-parse", "HEAD")
}

// MakeDiff produces a unified diff between the working tree and HEAD
// after applying fn to the working tree, then restores the tree.
func MakeDiff(t *testing.T, repoDir string, fn func(dir string)) string {
	t.Helper()

	fn(repoDir)
	// Stage everything so new files show up in the diff too.
	if err := runGit(t, repoDir, "add", "-A"); err != nil {
		t.Fatalf("git add failed: %v", err)
	}
	diff := gitOutput(t, repoDir, "diff", "--cached")
	if err := runGit(t, repoDir, "reset"); err != nil {
		t.Fatalf("git reset failed: %v", err)
	}
	if err := runGit(t, repoDir, "checkout", "--", "."); err != nil {
		t.Fatalf("git checkout -- . failed: %v", err)
	}
	if err := runGit(t, repoDir, "clean", "-fd"); err != nil {
		t.Fatalf("git clean failed: %v", err)
	}
	if diff == "" {
		t.Fatal("MakeDiff produced an empty diff")
	}
	return diff + "\n"
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(output))
}

// runGit runs a git command in the specified directory.
func runGit(t *testing.T, dir string, args ...string) error {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("git %v output: %s", args, output)
		return err
	}
	return nil
}
