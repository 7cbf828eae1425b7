// Package testutil provides shared helpers for tests.
package testutil

import (
	"github.com/drydock-io/refit"
	"github.com/drydock-io/refit/report"
)

const sampleDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
 package main
+
`

// SampleRequest returns a complete workflow request suitable for mock runs.
func SampleRequest() refit.WorkflowRequest {
	return refit.WorkflowRequest{
		Repo: refit.RepoSpec{
			RepoURL:    "https://github.com/drydock-io/demo",
			BaseBranch: "main",
		},
		Patch: refit.PatchSpec{
			Diff:          sampleDiff,
			Branch:        "refit/cleanup",
			CommitMessage: "refit: apply cleanup patch",
		},
		PR: refit.PullRequestSpec{
			Title: "Refit cleanup",
			Body:  "Automated cleanup.",
		},
		Mirror: refit.MirrorSpec{
			MirrorURL:   "https://gitlab.example.com/mirrors/demo.git",
			ProjectPath: "mirrors/demo",
		},
		FleetReport: SampleReport(),
	}
}

// SampleReport returns a fleet report with one violation and mixed coverage.
func SampleReport() *report.Report {
	return &report.Report{
		LanguageStats: map[string]float64{"Go": 82.5, "Shell": 17.5},
		Violations: []report.Violation{
			{ID: "V-001", Message: "missing license header"},
		},
		Coverage: report.Coverage{
			CodeFiles:       40,
			TestFiles:       28,
			DocFiles:        12,
			TestCoverage:    0.70,
			DocCoverage:     0.30,
			LowTestCoverage: false,
			LowDocCoverage:  true,
		},
		HealthScore: 74,
	}
}
