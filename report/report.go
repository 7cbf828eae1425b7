package report

import (
	"fmt"
	"sort"
	"strings"
)

// Coverage holds test and documentation coverage heuristics for a repository.
type Coverage struct {
	// CodeFiles is the number of code files detected.
	CodeFiles int `json:"code_files"`
	// TestFiles is the number of test files detected.
	TestFiles int `json:"test_files"`
	// DocFiles is the number of documentation files detected.
	DocFiles int `json:"doc_files"`
	// TestCoverage is the test-files-to-code-files ratio.
	TestCoverage float64 `json:"test_coverage"`
	// DocCoverage is the doc-files-to-code-files ratio.
	DocCoverage float64 `json:"doc_coverage"`
	// LowTestCoverage marks test coverage below the heuristic threshold.
	LowTestCoverage bool `json:"low_test_coverage"`
	// LowDocCoverage marks doc coverage below the heuristic threshold.
	LowDocCoverage bool `json:"low_doc_coverage"`
}

// Violation is a single code-quality finding from an audit.
type Violation struct {
	// ID is the stable identifier of the violation type.
	ID string `json:"id"`
	// Message is a human-readable summary.
	Message string `json:"message"`
}

// Report is an externally computed repository health report. It is consumed
// here only to render pull-request body summaries; computing it is someone
// else's job.
type Report struct {
	// LanguageStats maps language names to their percentage of total lines.
	LanguageStats map[string]float64 `json:"language_stats"`
	// Violations found during inspection.
	Violations []Violation `json:"violations"`
	// Coverage heuristics.
	Coverage Coverage `json:"coverage"`
	// HealthScore is the aggregate score, 0-100.
	HealthScore int `json:"health_score"`
}

// LanguageStat is one entry of a sorted language distribution.
type LanguageStat struct {
	Language string
	Percent  float64
}

// SortedLanguages returns the language distribution ordered by descending
// percentage, ties broken by name for stable output.
func (r *Report) SortedLanguages() []LanguageStat {
	stats := make([]LanguageStat, 0, len(r.LanguageStats))
	for language, percent := range r.LanguageStats {
		stats = append(stats, LanguageStat{Language: language, Percent: percent})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Percent != stats[j].Percent {
			return stats[i].Percent > stats[j].Percent
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}

// FormatStats renders the statistics summary substituted for the stats
// placeholder token.
func (r *Report) FormatStats() string {
	var b strings.Builder
	cov := r.Coverage
	fmt.Fprintf(&b, "Refit stats:\n")
	fmt.Fprintf(&b, "- Health score: %d/100\n", r.HealthScore)
	fmt.Fprintf(&b, "- Test coverage: %.1f%% (%d/%d)\n", cov.TestCoverage*100, cov.TestFiles, cov.CodeFiles)
	fmt.Fprintf(&b, "- Doc coverage: %.1f%% (%d/%d)\n", cov.DocCoverage*100, cov.DocFiles, cov.CodeFiles)
	fmt.Fprintf(&b, "- Languages: %s\n", r.formatLanguages())
	return strings.TrimRight(b.String(), "\n")
}

// FormatFixes renders the violations summary substituted for the fixes
// placeholder token.
func (r *Report) FormatFixes() string {
	if len(r.Violations) == 0 {
		return "No violations detected."
	}
	var b strings.Builder
	b.WriteString("Violations:\n")
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "- %s (%s)\n", v.Message, v.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCI renders the CI-gate summary substituted for the CI placeholder
// token.
func (r *Report) FormatCI() string {
	var b strings.Builder
	cov := r.Coverage
	b.WriteString("Coverage gates:\n")
	fmt.Fprintf(&b, "- Tests: %s (%.1f%%, %d/%d)\n",
		gateStatus(cov.LowTestCoverage), cov.TestCoverage*100, cov.TestFiles, cov.CodeFiles)
	fmt.Fprintf(&b, "- Docs: %s (%.1f%%, %d/%d)\n",
		gateStatus(cov.LowDocCoverage), cov.DocCoverage*100, cov.DocFiles, cov.CodeFiles)
	return strings.TrimRight(b.String(), "\n")
}

func (r *Report) formatLanguages() string {
	stats := r.SortedLanguages()
	if len(stats) == 0 {
		return "No languages detected."
	}
	parts := make([]string, 0, len(stats))
	for _, stat := range stats {
		parts = append(parts, fmt.Sprintf("%s %.2f%%", stat.Language, stat.Percent))
	}
	return strings.Join(parts, ", ")
}

func gateStatus(low bool) string {
	if low {
		return "low"
	}
	return "ok"
}
