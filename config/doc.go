// Package config resolves the process-wide configuration once at startup:
// built-in defaults, overlaid with an optional YAML file, overlaid with
// environment variables (REFIT_* plus the conventional GITHUB_TOKEN and
// GITLAB_TOKEN).
//
// Transports never read the environment themselves; the resolved Config is
// passed into their constructors explicitly.
package config
