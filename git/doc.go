// Package git is the version-control transport for workflow runs.
//
// Core types:
//   - Transport: implements refit.GitClient by shelling out to git:
//     workspace preparation (validate a local checkout or clone fresh),
//     patch application and commit, branch create-or-reset, pushes to the
//     primary and mirror remotes, and best-effort cleanup
//   - CommandRunner: interface for executing git commands, with ExecRunner
//     as the subprocess default and scripted fakes injectable for tests
//   - InjectCredentials: pure, idempotent insertion of username:token
//     credentials into https remote URLs
//
// Every git invocation goes through one helper returning a structured
// Result (exit code, stdout, stderr), so call sites stay declarative and
// testable without spawning processes.
package git
