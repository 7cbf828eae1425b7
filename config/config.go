package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operating modes selecting the transport set.
const (
	// ModeLive drives real git, GitHub, and GitLab.
	ModeLive = "live"
	// ModeMock uses the in-memory transport set, for testing and offline
	// use.
	ModeMock = "mock"
)

// Config is the process-wide configuration, built once at startup and
// passed explicitly into transport constructors. Resolution order:
// defaults, then an optional YAML file, then environment variables.
type Config struct {
	// Mode selects the transport set: "live" (default) or "mock".
	Mode string `yaml:"mode"`
	// WorkspaceRoot is where managed workspaces are cloned. Empty means
	// the git transport's default under the system temp directory.
	WorkspaceRoot string `yaml:"workspace_root"`
	// KeepWorkspace disables workspace cleanup, for debugging.
	KeepWorkspace bool `yaml:"keep_workspace"`
	// GitHubToken authenticates primary-host API calls and clone/push URLs.
	GitHubToken string `yaml:"github_token"`
	// GitLabToken authenticates mirror-host API calls and mirror push URLs.
	GitLabToken string `yaml:"gitlab_token"`
	// GitHubAPIURL overrides the primary-host API endpoint (enterprise).
	GitHubAPIURL string `yaml:"github_api_url"`
	// GitLabBaseURL overrides the mirror-host instance URL (self-hosted).
	GitLabBaseURL string `yaml:"gitlab_base_url"`
	// AuthorName and AuthorEmail form the commit identity for applied
	// patches.
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	// DatabasePath is the sqlite file workflow results are persisted to.
	DatabasePath string `yaml:"database_path"`
	// SlackWebhookURL, when set, enables Slack completion notifications.
	SlackWebhookURL string `yaml:"slack_webhook_url"`
	// WebhookURL, when set, posts completion events as JSON to a generic
	// HTTP endpoint. Both notifiers may be active at once.
	WebhookURL string `yaml:"webhook_url"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Mode:         ModeLive,
		DatabasePath: "refit.db",
	}
}

// Load builds the configuration: defaults, overlaid with the YAML file at
// path (skipped when path is empty or the file does not exist), overlaid
// with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; env and defaults still apply.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv builds the configuration from defaults and environment only.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	setString(&c.Mode, "REFIT_MODE")
	setString(&c.WorkspaceRoot, "REFIT_WORKSPACE_ROOT")
	setBool(&c.KeepWorkspace, "REFIT_KEEP_WORKSPACE")
	setString(&c.GitHubToken, "GITHUB_TOKEN")
	setString(&c.GitLabToken, "GITLAB_TOKEN")
	setString(&c.GitHubAPIURL, "REFIT_GITHUB_API_URL")
	setString(&c.GitLabBaseURL, "REFIT_GITLAB_BASE_URL")
	setString(&c.AuthorName, "REFIT_GIT_AUTHOR_NAME")
	setString(&c.AuthorEmail, "REFIT_GIT_AUTHOR_EMAIL")
	setString(&c.DatabasePath, "REFIT_DB_PATH")
	setString(&c.SlackWebhookURL, "REFIT_SLACK_WEBHOOK_URL")
	setString(&c.WebhookURL, "REFIT_WEBHOOK_URL")
}

// MockMode reports whether the mock transport set is selected.
func (c *Config) MockMode() bool {
	return strings.EqualFold(c.Mode, ModeMock)
}

func setString(dst *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		*dst = value
	}
}

func setBool(dst *bool, key string) {
	if value, ok := os.LookupEnv(key); ok {
		*dst = value == "1" || strings.EqualFold(value, "true")
	}
}
