package main

import (
	"github.com/spf13/cobra"

	"github.com/drydock-io/refit/store"
)

var showCmd = &cobra.Command{
	Use:   "show <workflow-id>",
	Short: "Show the step ledger of a persisted workflow",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.GetResult(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printResult(res)
	return nil
}
