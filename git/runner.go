package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Result is the structured outcome of one git invocation.
type Result struct {
	// ExitCode is the process exit status. Zero means success.
	ExitCode int
	// Stdout is the captured standard output.
	Stdout string
	// Stderr is the captured standard error.
	Stderr string
}

// CommandRunner executes git commands. The exec-backed implementation is
// the default; tests inject scripted runners via WithRunner.
type CommandRunner interface {
	// Run executes git with the given arguments in dir. A non-zero exit is
	// reported through Result.ExitCode, not through the error; the error is
	// reserved for failures to execute at all.
	Run(ctx context.Context, dir string, args ...string) (Result, error)
}

// ExecRunner runs git as a subprocess.
type ExecRunner struct{}

// NewExecRunner creates the default subprocess-backed runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// Never block a run waiting for credentials on a terminal.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}
