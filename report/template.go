package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Placeholder tokens recognized in pull-request templates. Substitution is a
// literal token replace, deliberately not a templating engine, so untrusted
// repository content is never evaluated.
const (
	// TokenStats is replaced with the statistics summary.
	TokenStats = "{{REFIT_STATS}}"
	// TokenFixes is replaced with the violations/fixes summary.
	TokenFixes = "{{REFIT_FIXES}}"
	// TokenCI is replaced with the CI-gate summary.
	TokenCI = "{{REFIT_CI}}"
)

// templateCandidates lists template locations relative to the repository
// root, in lookup order.
var templateCandidates = []string{
	"PULL_REQUEST_TEMPLATE.md",
	filepath.Join(".github", "PULL_REQUEST_TEMPLATE.md"),
}

// FindTemplate locates a pull-request template under repoRoot, checking the
// root-level file first and the .github/ file second. It returns the path of
// the first regular file found.
func FindTemplate(repoRoot string) (string, bool) {
	for _, candidate := range templateCandidates {
		path := filepath.Join(repoRoot, candidate)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// Interpolate renders the repository's pull-request template with summaries
// derived from the report. found is false when the repository carries no
// template, in which case the caller's own body should be used unchanged.
func Interpolate(repoRoot string, r *Report) (rendered string, found bool, err error) {
	path, ok := FindTemplate(repoRoot)
	if !ok {
		return "", false, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", true, fmt.Errorf("read pr template %s: %w", path, err)
	}
	return Apply(string(raw), r), true, nil
}

// Apply substitutes the recognized placeholder tokens in template with
// summaries derived from the report. Unrecognized content passes through
// untouched.
func Apply(template string, r *Report) string {
	if strings.Contains(template, TokenStats) {
		template = strings.ReplaceAll(template, TokenStats, strings.TrimSpace(r.FormatStats()))
	}
	if strings.Contains(template, TokenFixes) {
		template = strings.ReplaceAll(template, TokenFixes, strings.TrimSpace(r.FormatFixes()))
	}
	if strings.Contains(template, TokenCI) {
		template = strings.ReplaceAll(template, TokenCI, strings.TrimSpace(r.FormatCI()))
	}
	return template
}

// MergeBody appends the caller-supplied extra body to a rendered template,
// separated by a blank line. A blank extra body leaves the template as is.
func MergeBody(rendered, extra string) string {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return rendered
	}
	return rendered + "\n\n" + extra
}
