// Package refit lands a locally computed source-code patch across two git
// hosting backends: it opens a reviewable pull request on the primary host
// and mirrors the same branch to a secondary host, triggering CI there.
//
// The package is organized into subpackages by concern:
//
//   - git: workspace preparation, patch application, branches, dual-remote
//     pushes, credential injection, cleanup
//   - pr: pull request creation on the primary host (GitHub API)
//   - mirror: mirror project management and pipeline triggering (GitLab API)
//   - report: health-report model and PR body template interpolation
//   - store: sqlite persistence of workflow results and their step ledgers
//   - config: environment/file configuration resolved once at startup
//   - notify: completion notifications (Slack, webhook, log)
//   - testutil: fake command runners and fixtures for tests
//
// The root package holds the domain model and the Runner, a seven-phase
// state machine: apply_patch, create_branch, push_branch,
// ensure_mirror_project, mirror_push, trigger_mirror_pipeline, open_pr.
// Steps run strictly in that order; the first failure marks its step failed,
// marks every remaining step skipped, and releases the workspace. The Runner
// never returns an error; every run produces a complete seven-entry ledger
// attributing exactly which phase broke and why.
//
// # Quick Start
//
//	clients := refit.MockClients()
//	runner := refit.NewRunner(clients)
//	result := runner.Run(ctx, &refit.WorkflowRequest{ ... })
//	for _, step := range result.Steps {
//	    fmt.Println(step.Kind, step.Status, step.Detail)
//	}
//
// Live transports are built from config:
//
//	cfg, _ := config.Load("")
//	clients := refit.Clients{
//	    Git:    git.NewTransport(git.Config{...}),
//	    Host:   pr.NewGitHubClient(cfg.GitHubToken, cfg.GitHubAPIURL),
//	    Mirror: mirror.NewGitLabClient(cfg.GitLabToken, cfg.GitLabBaseURL),
//	}
//
// The runner imposes no internal timeout or retry; bound each run with a
// context deadline from the caller.
package refit
