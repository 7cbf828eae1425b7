// Package report carries the externally computed repository health report
// and renders it into pull-request bodies.
//
// Core pieces:
//   - Report: language distribution, coverage heuristics, violations, and an
//     aggregate health score
//   - FindTemplate / Interpolate: locate a PULL_REQUEST_TEMPLATE.md (repo
//     root first, then .github/) and substitute the three recognized
//     placeholder tokens with report-derived summaries
//   - MergeBody: append caller-supplied text below a rendered template
//
// Substitution is a literal string replace on three fixed tokens
// (TokenStats, TokenFixes, TokenCI); repository content is never evaluated.
package report
