package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drydock-io/refit/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <repo-id>",
	Short: "List persisted workflows for a repository, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListByRepo(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No workflows recorded.")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %-8s %s", rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Status, rec.WorkflowID)
		if rec.PRURL != "" {
			fmt.Printf("  %s", rec.PRURL)
		}
		fmt.Println()
	}
	return nil
}
