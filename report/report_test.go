package report

import (
	"strings"
	"testing"
)

func sampleReport() *Report {
	return &Report{
		LanguageStats: map[string]float64{"Go": 82.5, "Shell": 12.5, "Make": 5.0},
		Violations: []Violation{
			{ID: "V-001", Message: "missing license header"},
			{ID: "V-007", Message: "unchecked error return"},
		},
		Coverage: Coverage{
			CodeFiles:       40,
			TestFiles:       28,
			DocFiles:        12,
			TestCoverage:    0.70,
			DocCoverage:     0.30,
			LowDocCoverage:  true,
			LowTestCoverage: false,
		},
		HealthScore: 74,
	}
}

func TestSortedLanguages(t *testing.T) {
	t.Run("descending by percent", func(t *testing.T) {
		stats := sampleReport().SortedLanguages()
		if len(stats) != 3 {
			t.Fatalf("len = %d, want 3", len(stats))
		}
		if stats[0].Language != "Go" || stats[2].Language != "Make" {
			t.Errorf("order = %v", stats)
		}
	})

	t.Run("name breaks ties", func(t *testing.T) {
		r := &Report{LanguageStats: map[string]float64{"B": 50, "A": 50}}
		stats := r.SortedLanguages()
		if stats[0].Language != "A" {
			t.Errorf("stats[0] = %q, want A", stats[0].Language)
		}
	})

	t.Run("empty", func(t *testing.T) {
		r := &Report{}
		if got := r.SortedLanguages(); len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestFormatStats(t *testing.T) {
	got := sampleReport().FormatStats()

	for _, want := range []string{
		"Health score: 74/100",
		"Test coverage: 70.0% (28/40)",
		"Doc coverage: 30.0% (12/40)",
		"Go 82.50%",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatStats missing %q:\n%s", want, got)
		}
	}
}

func TestFormatFixes(t *testing.T) {
	t.Run("with violations", func(t *testing.T) {
		got := sampleReport().FormatFixes()
		if !strings.Contains(got, "missing license header (V-001)") {
			t.Errorf("FormatFixes = %q", got)
		}
	})

	t.Run("clean", func(t *testing.T) {
		r := &Report{}
		if got := r.FormatFixes(); got != "No violations detected." {
			t.Errorf("FormatFixes = %q", got)
		}
	})
}

func TestFormatCI(t *testing.T) {
	got := sampleReport().FormatCI()
	if !strings.Contains(got, "Tests: ok (70.0%, 28/40)") {
		t.Errorf("FormatCI missing test gate:\n%s", got)
	}
	if !strings.Contains(got, "Docs: low (30.0%, 12/40)") {
		t.Errorf("FormatCI missing doc gate:\n%s", got)
	}
}
