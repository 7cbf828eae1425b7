package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/drydock-io/refit"
	"github.com/drydock-io/refit/config"
	"github.com/drydock-io/refit/git"
	"github.com/drydock-io/refit/mirror"
	"github.com/drydock-io/refit/notify"
	"github.com/drydock-io/refit/pr"
	"github.com/drydock-io/refit/store"
)

var runRepoID string

var runCmd = &cobra.Command{
	Use:   "run <request.json>",
	Short: "Execute a workflow from a JSON request file",
	Long: `Run reads a workflow request from a JSON file, executes the
seven-step pipeline, persists the resulting ledger, and prints it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runRepoID, "repo-id", "", "repository id the run is recorded under (defaults to the repo URL)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}
	var req refit.WorkflowRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request file: %w", err)
	}

	repoID := runRepoID
	if repoID == "" {
		repoID = req.Repo.RepoURL
	}
	if repoID == "" {
		repoID = req.Repo.LocalPath
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := refit.NewRunner(buildClients(cfg))

	opts := []refit.ServiceOption{}
	if notifier := buildNotifier(cfg); notifier != nil {
		opts = append(opts, refit.WithNotifier(notifier))
	}
	svc := refit.NewService(runner, db, opts...)

	res, err := svc.Run(cmd.Context(), repoID, &req)
	if res != nil {
		printResult(res)
	}
	return err
}

// buildNotifier assembles the configured completion notifiers. Returns nil
// when none are configured.
func buildNotifier(cfg *config.Config) notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.SlackWebhookURL))
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.WebhookURL, nil))
	}
	switch len(notifiers) {
	case 0:
		return nil
	case 1:
		return notifiers[0]
	default:
		return notify.NewMultiNotifier(notifiers...)
	}
}

func buildClients(cfg *config.Config) refit.Clients {
	if cfg.MockMode() {
		slog.Info("running in mock mode; no remote calls will be made")
		return refit.MockClients()
	}
	return refit.Clients{
		Git: git.NewTransport(git.Config{
			WorkspaceRoot: cfg.WorkspaceRoot,
			KeepWorkspace: cfg.KeepWorkspace,
			GitHubToken:   cfg.GitHubToken,
			GitLabToken:   cfg.GitLabToken,
			AuthorName:    cfg.AuthorName,
			AuthorEmail:   cfg.AuthorEmail,
		}),
		Host:   pr.NewGitHubClient(cfg.GitHubToken, cfg.GitHubAPIURL),
		Mirror: mirror.NewGitLabClient(cfg.GitLabToken, cfg.GitLabBaseURL),
	}
}

func printResult(res *refit.WorkflowResult) {
	fmt.Printf("Workflow: %s (%s)\n", res.WorkflowID, res.Status)
	for i, step := range res.Steps {
		fmt.Printf("  %d. %-24s %-8s %s\n", i+1, step.Kind, step.Status, step.Detail)
	}
	if res.PRURL != "" {
		fmt.Printf("PR: %s\n", res.PRURL)
	}
	if res.PipelineURL != "" {
		fmt.Printf("Pipeline: %s\n", res.PipelineURL)
	}
}
