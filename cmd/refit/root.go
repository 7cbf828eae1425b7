package main

import (
	"github.com/spf13/cobra"

	"github.com/drydock-io/refit/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "refit",
	Short: "Apply a patch to a repository and open a pull request",
	Long: `Refit runs a seven-step workflow against a repository: apply a
locally computed patch, create a branch, push it to the primary host,
ensure a mirror project exists on the secondary host, push the branch to
the mirror, trigger mirror CI, and open a pull request. Every run records
an append-only seven-entry step ledger.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
